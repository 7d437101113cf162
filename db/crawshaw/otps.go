package crawshaw

import (
	"fmt"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"github.com/caasmo/notefold/db"
)

const otpColumns = `id, email, code, expires, used, created`

func newOtpFromStmt(stmt *sqlite.Stmt) (*db.Otp, error) {
	expires, err := db.TimeParse(stmt.GetText("expires"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires time: %w", err)
	}

	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	return &db.Otp{
		ID:      stmt.GetInt64("id"),
		Email:   stmt.GetText("email"),
		Code:    stmt.GetText("code"),
		Expires: expires,
		Used:    stmt.GetInt64("used") != 0,
		Created: created,
	}, nil
}

func (d *Db) InsertOtp(otp db.Otp) error {
	if otp.Email == "" || otp.Code == "" {
		return fmt.Errorf("%w: Email, Code", db.ErrMissingFields)
	}

	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	err := sqlitex.Exec(conn,
		`INSERT INTO otp_codes (email, code, expires) VALUES (?, ?, ?)`,
		nil, otp.Email, otp.Code, db.TimeFormat(otp.Expires))
	if err != nil {
		return fmt.Errorf("otp insert failed: %w", err)
	}
	return nil
}

// ConsumeOtp marks the newest matching live code used and returns it. The
// conditional UPDATE makes verify and consume a single step.
func (d *Db) ConsumeOtp(email, code string) (*db.Otp, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var otp *db.Otp
	err := sqlitex.Exec(conn,
		`UPDATE otp_codes
		SET used = TRUE
		WHERE id = (
			SELECT id FROM otp_codes
			WHERE email = ? AND code = ? AND used = FALSE
				AND expires >= (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
			ORDER BY id DESC
			LIMIT 1
		)
		RETURNING `+otpColumns,
		func(stmt *sqlite.Stmt) error {
			var err error
			otp, err = newOtpFromStmt(stmt)
			return err
		}, email, code)

	if err != nil {
		return nil, fmt.Errorf("otp consume failed: %w", err)
	}
	if otp == nil {
		return nil, db.ErrOtpNotFound
	}
	return otp, nil
}

func (d *Db) DeleteExpiredOtps() (int, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var deleted int
	err := sqlitex.Exec(conn,
		`DELETE FROM otp_codes
		WHERE used = TRUE
			OR expires < (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING id`,
		func(stmt *sqlite.Stmt) error {
			deleted++
			return nil
		})

	if err != nil {
		return 0, fmt.Errorf("otp sweep failed: %w", err)
	}
	return deleted, nil
}

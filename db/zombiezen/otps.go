package zombiezen

import (
	"context"
	"fmt"

	"github.com/caasmo/notefold/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
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

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO otp_codes (email, code, expires) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{otp.Email, otp.Code, db.TimeFormat(otp.Expires)},
		})
	if err != nil {
		return fmt.Errorf("otp insert failed: %w", err)
	}
	return nil
}

// ConsumeOtp marks the newest matching live code used and returns it.
// Verification and consumption are one conditional UPDATE: the WHERE clause
// only matches unexpired, unused records, so two racing requests for the
// same (email, code) can never both succeed.
func (d *Db) ConsumeOtp(email, code string) (*db.Otp, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var otp *db.Otp
	err = sqlitex.Execute(conn,
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
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				otp, err = newOtpFromStmt(stmt)
				return err
			},
			Args: []interface{}{email, code},
		})

	if err != nil {
		return nil, fmt.Errorf("otp consume failed: %w", err)
	}
	if otp == nil {
		return nil, db.ErrOtpNotFound
	}
	return otp, nil
}

// DeleteExpiredOtps removes used and expired codes. Deleting rows that are
// already gone is a no-op, so overlapping sweep runs need no coordination.
func (d *Db) DeleteExpiredOtps() (int, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer d.pool.Put(conn)

	var deleted int
	err = sqlitex.Execute(conn,
		`DELETE FROM otp_codes
		WHERE used = TRUE
			OR expires < (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				deleted++
				return nil
			},
		})

	if err != nil {
		return 0, fmt.Errorf("otp sweep failed: %w", err)
	}
	return deleted, nil
}

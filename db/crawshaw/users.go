package crawshaw

import (
	"fmt"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/google/uuid"

	"github.com/caasmo/notefold/db"
)

const userColumns = `id, email, name, date_of_birth, password, verified, external_id, created, updated`

func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.User{
		ID:          stmt.GetText("id"),
		Email:       stmt.GetText("email"),
		Name:        stmt.GetText("name"),
		DateOfBirth: stmt.GetText("date_of_birth"),
		Password:    stmt.GetText("password"),
		Verified:    stmt.GetInt64("verified") != 0,
		ExternalId:  stmt.GetText("external_id"),
		Created:     created,
		Updated:     updated,
	}, nil
}

func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var user *db.User
	err := sqlitex.Exec(conn,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		func(stmt *sqlite.Stmt) error {
			var err error
			user, err = newUserFromStmt(stmt)
			return err
		}, email)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var user *db.User
	err := sqlitex.Exec(conn,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`,
		func(stmt *sqlite.Stmt) error {
			var err error
			user, err = newUserFromStmt(stmt)
			return err
		}, id)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Db) CreateUserWithOtp(user db.User) (*db.User, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var createdUser db.User
	err := sqlitex.Exec(conn,
		`INSERT INTO users (id, email, name, date_of_birth, password, verified, external_id)
		VALUES (?, ?, ?, ?, ?, TRUE, '')
		ON CONFLICT(email) DO UPDATE SET
			verified = TRUE,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING `+userColumns,
		func(stmt *sqlite.Stmt) error {
			tempUser, err := newUserFromStmt(stmt)
			if err == nil && tempUser != nil {
				createdUser = *tempUser
			}
			return err
		},
		uuid.NewString(),
		user.Email,
		user.Name,
		user.DateOfBirth,
		user.Password,
	)

	if err != nil {
		return nil, err
	}
	return &createdUser, nil
}

func (d *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var createdUser db.User
	err := sqlitex.Exec(conn,
		`INSERT INTO users (id, email, name, date_of_birth, password, verified, external_id)
		VALUES (?, ?, ?, ?, '', TRUE, ?)
		ON CONFLICT(email) DO UPDATE SET
			external_id = CASE WHEN users.external_id = '' THEN excluded.external_id ELSE users.external_id END,
			verified = TRUE,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING `+userColumns,
		func(stmt *sqlite.Stmt) error {
			tempUser, err := newUserFromStmt(stmt)
			if err == nil && tempUser != nil {
				createdUser = *tempUser
			}
			return err
		},
		uuid.NewString(),
		user.Email,
		user.Name,
		user.DateOfBirth,
		user.ExternalId,
	)

	if err != nil {
		return nil, err
	}
	return &createdUser, nil
}

func (d *Db) LinkOauth2(userId, externalId string) error {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var linked bool
	err := sqlitex.Exec(conn,
		`UPDATE users
		SET external_id = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?
		RETURNING id`,
		func(stmt *sqlite.Stmt) error {
			linked = true
			return nil
		}, externalId, userId)

	if err != nil {
		return fmt.Errorf("failed to link external identity: %w", err)
	}
	if !linked {
		return db.ErrUserNotFound
	}
	return nil
}

package zombiezen

import (
	"context"
	"fmt"

	"github.com/caasmo/notefold/db"
	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const userColumns = `id, email, name, date_of_birth, password, verified, external_id, created, updated`

// newUserFromStmt creates a User struct from a SQLite statement
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

// GetUserByEmail retrieves a user by email address.
// Returns:
// - *db.User: User record if found, nil if no matching record exists
// - returned time fields are in UTC, RFC3339
// - error: Only returned for database errors, nil on successful query (even if no results)
func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User // Will remain nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{email},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUserWithOtp creates a verified user after OTP verification. On email
// conflict the existing record is returned with verified set, so two racing
// verifications for the same email both succeed without a transaction.
func (d *Db) CreateUserWithOtp(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, date_of_birth, password, verified, external_id)
		VALUES (?, ?, ?, ?, ?, TRUE, '')
		ON CONFLICT(email) DO UPDATE SET
			verified = TRUE,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempUser, err := newUserFromStmt(stmt)
				if err == nil && tempUser != nil {
					createdUser = *tempUser
				}
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				user.Name,
				user.DateOfBirth,
				user.Password,
			},
		})

	if err != nil {
		return nil, err
	}
	return &createdUser, nil
}

// CreateUserWithOauth2 creates a verified user from an external identity. On
// email conflict the external subject id is attached to the existing record.
func (d *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, date_of_birth, password, verified, external_id)
		VALUES (?, ?, ?, ?, '', TRUE, ?)
		ON CONFLICT(email) DO UPDATE SET
			external_id = CASE WHEN users.external_id = '' THEN excluded.external_id ELSE users.external_id END,
			verified = TRUE,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempUser, err := newUserFromStmt(stmt)
				if err == nil && tempUser != nil {
					createdUser = *tempUser
				}
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				user.Name,
				user.DateOfBirth,
				user.ExternalId,
			},
		})

	if err != nil {
		return nil, err
	}
	return &createdUser, nil
}

func (d *Db) LinkOauth2(userId, externalId string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	var linked bool
	err = sqlitex.Execute(conn,
		`UPDATE users
		SET external_id = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?
		RETURNING id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				linked = true
				return nil
			},
			Args: []interface{}{externalId, userId},
		})

	if err != nil {
		return fmt.Errorf("failed to link external identity: %w", err)
	}
	if !linked {
		return db.ErrUserNotFound
	}
	return nil
}

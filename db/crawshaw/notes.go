package crawshaw

import (
	"fmt"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/google/uuid"

	"github.com/caasmo/notefold/db"
)

const noteColumns = `id, owner_id, title, content, created, updated`

func newNoteFromStmt(stmt *sqlite.Stmt) (*db.Note, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.Note{
		ID:      stmt.GetText("id"),
		OwnerId: stmt.GetText("owner_id"),
		Title:   stmt.GetText("title"),
		Content: stmt.GetText("content"),
		Created: created,
		Updated: updated,
	}, nil
}

func (d *Db) CreateNote(note db.Note) (*db.Note, error) {
	if note.OwnerId == "" {
		return nil, fmt.Errorf("%w: OwnerId", db.ErrMissingFields)
	}

	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var created db.Note
	err := sqlitex.Exec(conn,
		`INSERT INTO notes (id, owner_id, title, content)
		VALUES (?, ?, ?, ?)
		RETURNING `+noteColumns,
		func(stmt *sqlite.Stmt) error {
			tempNote, err := newNoteFromStmt(stmt)
			if err == nil && tempNote != nil {
				created = *tempNote
			}
			return err
		},
		uuid.NewString(),
		note.OwnerId,
		note.Title,
		note.Content,
	)

	if err != nil {
		return nil, fmt.Errorf("note insert failed: %w", err)
	}
	return &created, nil
}

func (d *Db) GetNote(id, ownerId string) (*db.Note, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var note *db.Note
	err := sqlitex.Exec(conn,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND owner_id = ? LIMIT 1`,
		func(stmt *sqlite.Stmt) error {
			var err error
			note, err = newNoteFromStmt(stmt)
			return err
		}, id, ownerId)

	if err != nil {
		return nil, err
	}
	return note, nil
}

func (d *Db) ListNotes(ownerId string) ([]*db.Note, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var notes []*db.Note
	err := sqlitex.Exec(conn,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = ? ORDER BY updated DESC`,
		func(stmt *sqlite.Stmt) error {
			note, err := newNoteFromStmt(stmt)
			if err != nil {
				return err
			}
			notes = append(notes, note)
			return nil
		}, ownerId)

	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *Db) UpdateNote(note db.Note) (*db.Note, error) {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var updated *db.Note
	err := sqlitex.Exec(conn,
		`UPDATE notes
		SET title = ?,
			content = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ? AND owner_id = ?
		RETURNING `+noteColumns,
		func(stmt *sqlite.Stmt) error {
			var err error
			updated, err = newNoteFromStmt(stmt)
			return err
		}, note.Title, note.Content, note.ID, note.OwnerId)

	if err != nil {
		return nil, fmt.Errorf("note update failed: %w", err)
	}
	if updated == nil {
		return nil, db.ErrNoteNotFound
	}
	return updated, nil
}

func (d *Db) DeleteNote(id, ownerId string) error {
	conn := d.pool.Get(nil)
	defer d.pool.Put(conn)

	var deleted bool
	err := sqlitex.Exec(conn,
		`DELETE FROM notes WHERE id = ? AND owner_id = ? RETURNING id`,
		func(stmt *sqlite.Stmt) error {
			deleted = true
			return nil
		}, id, ownerId)

	if err != nil {
		return fmt.Errorf("note delete failed: %w", err)
	}
	if !deleted {
		return db.ErrNoteNotFound
	}
	return nil
}

package zombiezen

import (
	"fmt"

	"github.com/caasmo/notefold/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbAuth = (*Db)(nil)
var _ db.DbOtp = (*Db)(nil)
var _ db.DbNote = (*Db)(nil)
var _ db.DbQueue = (*Db)(nil)
var _ db.DbApp = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// The lifecycle of the pool is managed externally; this type never closes it.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

// NewPool opens a connection pool on the given database file with WAL mode
// and foreign keys enabled.
func NewPool(path string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags: sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite pool at %s: %w", path, err)
	}
	return pool, nil
}

// NewConn opens a single standalone connection, used by the backup job to
// drive the online backup API outside the pool.
func NewConn(path string) (*sqlite.Conn, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection at %s: %w", path, err)
	}
	return conn, nil
}

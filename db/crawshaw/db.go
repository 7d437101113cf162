package crawshaw

import (
	"fmt"
	"runtime"

	"crawshaw.io/sqlite/sqlitex"

	"github.com/caasmo/notefold/db"
)

// Db implements the db interfaces on top of crawshaw.io/sqlite. It is the
// alternative backend; zombiezen is the default.
type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementation (non-allocating check)
var _ db.DbApp = (*Db)(nil)
var _ db.DbAuth = (*Db)(nil)
var _ db.DbOtp = (*Db)(nil)
var _ db.DbNote = (*Db)(nil)
var _ db.DbQueue = (*Db)(nil)

// New creates a new Db instance using an existing pool.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

// NewPool opens a sqlite pool in WAL mode with a busy timeout.
func NewPool(path string) (*sqlitex.Pool, error) {
	initString := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	pool, err := sqlitex.Open(initString, 0, runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite pool at %s: %w", path, err)
	}
	return pool, nil
}

func (d *Db) Close() error {
	return d.pool.Close()
}

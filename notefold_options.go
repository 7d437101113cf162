package notefold

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	crawshawPool "crawshaw.io/sqlite/sqlitex"
	phuslog "github.com/phuslu/log"
	zombiezenPool "zombiezen.com/go/sqlite/sqlitex"

	"github.com/caasmo/notefold/cache/ristretto"
	"github.com/caasmo/notefold/core"
	"github.com/caasmo/notefold/db/crawshaw"
	"github.com/caasmo/notefold/db/zombiezen"
	"github.com/caasmo/notefold/migrations"
	"github.com/caasmo/notefold/router/httprouter"
	"github.com/caasmo/notefold/router/servemux"
)

// WithDbZombiezen opens a zombiezen sqlite pool at dbPath, applies the
// schema, and wires the store. Panics on failure; a broken database at
// startup is not recoverable.
func WithDbZombiezen(dbPath string) core.Option {
	pool, err := zombiezen.NewPool(dbPath)
	if err != nil {
		panic(fmt.Sprintf("failed to open zombiezen pool at %s: %v", dbPath, err))
	}
	if err := applySchemaZombiezen(pool); err != nil {
		panic(fmt.Sprintf("failed to apply schema: %v", err))
	}
	return WithZombiezenPool(pool)
}

// WithZombiezenPool wires an existing zombiezen pool. The caller owns the
// pool's lifecycle; sharing one pool with application code avoids
// SQLITE_BUSY contention between writers.
func WithZombiezenPool(pool *zombiezenPool.Pool) core.Option {
	dbInstance, err := zombiezen.New(pool)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize zombiezen store: %v", err))
	}
	return core.WithDbApp(dbInstance)
}

// WithDbCrawshaw opens a crawshaw sqlite pool at dbPath, applies the
// schema, and wires the store.
func WithDbCrawshaw(dbPath string) core.Option {
	pool, err := crawshaw.NewPool(dbPath)
	if err != nil {
		panic(fmt.Sprintf("failed to open crawshaw pool at %s: %v", dbPath, err))
	}
	if err := applySchemaCrawshaw(pool); err != nil {
		panic(fmt.Sprintf("failed to apply schema: %v", err))
	}
	return WithCrawshawPool(pool)
}

// WithCrawshawPool wires an existing crawshaw pool.
func WithCrawshawPool(pool *crawshawPool.Pool) core.Option {
	dbInstance, err := crawshaw.New(pool)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize crawshaw store: %v", err))
	}
	return core.WithDbApp(dbInstance)
}

// applySchemaZombiezen runs the embedded schema script. Every statement
// uses IF NOT EXISTS, so reapplying on an existing database is a no-op.
func applySchemaZombiezen(pool *zombiezenPool.Pool) error {
	script, err := migrations.SQL()
	if err != nil {
		return err
	}
	conn, err := pool.Take(context.Background())
	if err != nil {
		return err
	}
	defer pool.Put(conn)
	return zombiezenPool.ExecuteScript(conn, script, nil)
}

func applySchemaCrawshaw(pool *crawshawPool.Pool) error {
	script, err := migrations.SQL()
	if err != nil {
		return err
	}
	conn := pool.Get(nil)
	defer pool.Put(conn)
	return crawshawPool.ExecScript(conn, script)
}

// WithRouterServeMux wires the standard library ServeMux router.
func WithRouterServeMux() core.Option {
	return core.WithRouter(servemux.New())
}

// WithRouterHttprouter wires the httprouter-backed router.
func WithRouterHttprouter() core.Option {
	return core.WithRouter(httprouter.New())
}

// WithCacheRistretto wires a ristretto cache for user record lookups.
func WithCacheRistretto() core.Option {
	c, err := ristretto.New[string, interface{}]()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize ristretto cache: %v", err))
	}
	return core.WithCache(c)
}

// DefaultLoggerOptions provides default settings for slog handlers.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelInfo,
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}

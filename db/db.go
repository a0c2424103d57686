// Package db is the storage gateway for the notes table: it owns the
// connection pool, the SQL dialects and the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"public-notes/config"
)

var (
	// ErrConnection means the store could not be reached or refused the
	// credentials.
	ErrConnection = errors.New("database connection failed")
	// ErrDatabase covers failed queries and constraint violations.
	ErrDatabase = errors.New("database error")
	// ErrDuplicateTag is returned together with ErrDatabase when an insert
	// collides with an existing tag.
	ErrDuplicateTag = errors.New("duplicate tag")
)

const NotesTable = "notes"

// Querier is the subset shared by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Gateway struct {
	pool    *sql.DB
	dialect dialect
	log     zerolog.Logger

	schemaMu    sync.Mutex
	schemaReady bool
}

// Open creates the bounded connection pool described by cfg and ensures the
// notes table exists. An unreachable store is logged, not returned: the
// schema is then created on the first connection that Acquire hands out.
func Open(ctx context.Context, cfg config.Database, log zerolog.Logger) (*Gateway, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(d.driver, d.dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	g := &Gateway{
		pool:    pool,
		dialect: d,
		log:     log.With().Str("component", "db").Str("driver", d.name).Logger(),
	}

	if err := g.Ping(ctx); err != nil {
		g.log.Warn().Err(err).Msg("Database not reachable, schema will be created on first use")
		return g, nil
	}

	if err := g.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	g.log.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Connected to database")
	return g, nil
}

// Acquire borrows one connection from the pool. The caller must Close it
// on every path.
func (g *Gateway) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := g.pool.Conn(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("Could not acquire connection")
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := g.ensureSchemaOnce(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.pool.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// EnsureSchema creates the notes table and its email index when missing.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	g.schemaMu.Lock()
	defer g.schemaMu.Unlock()

	return g.createSchema(ctx, g.pool)
}

// ensureSchemaOnce runs the schema statements on conn until they succeed
// once.
func (g *Gateway) ensureSchemaOnce(ctx context.Context, conn *sql.Conn) error {
	g.schemaMu.Lock()
	defer g.schemaMu.Unlock()

	if g.schemaReady {
		return nil
	}
	if err := g.createSchema(ctx, conn); err != nil {
		g.log.Error().Err(err).Msg("Could not create notes table")
		return err
	}
	g.log.Info().Msg("Notes table ready")
	return nil
}

func (g *Gateway) createSchema(ctx context.Context, q Querier) error {
	for _, stmt := range g.dialect.schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: creating notes table: %v", ErrDatabase, err)
		}
	}
	g.schemaReady = true
	return nil
}

func (g *Gateway) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, g.dialect.tableExists, table).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking table %s: %v", ErrDatabase, table, err)
	}
	return count > 0, nil
}

// IsDuplicateKey reports whether err is a primary key or unique violation.
func (g *Gateway) IsDuplicateKey(err error) bool {
	return err != nil && g.dialect.isDuplicateKey(err)
}

func (g *Gateway) Driver() string {
	return g.dialect.name
}

func (g *Gateway) Close() error {
	return g.pool.Close()
}

// Package sqlite implements the repositories on an embedded SQLite database.
// It is the single-binary alternative to the MongoDB store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	driver "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var registerHook sync.Once

// Open initializes a SQLite connection to dbPath, creating the parent
// directory when needed, and migrates the schema to the latest version.
func Open(ctx context.Context, log zerolog.Logger, dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if _, err := os.Stat(dbPath); err != nil {
			const userOnlyDirPerms = 0o700
			if err = os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
				return nil, fmt.Errorf("failed to create db parent directory: %w", err)
			}
		}
	}

	dsn := dbPath
	if strings.ContainsRune(dsn, '?') {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_time_format=sqlite"

	registerHook.Do(func() {
		driver.RegisterConnectionHook(func(conn driver.ExecQuerierContext, _ string) error {
			const initSQL = `
			pragma journal_mode = WAL;
			pragma synchronous = normal;
			pragma busy_timeout = 5000;
			`
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	}
	if err = handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	handle.SetMaxOpenConns(1)

	if err := migrate(ctx, log.With().Str("db", dbPath).Logger(), handle); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return handle, nil
}

func migrate(ctx context.Context, log zerolog.Logger, handle *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, handle, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	for _, r := range results {
		log.Debug().
			Int64("version", r.Source.Version).
			Dur("took", r.Duration).
			Msg("migration applied")
	}
	return nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

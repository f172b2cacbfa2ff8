package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `cmd/migrate create` writes new files; they are embedded on the next build.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

// Embedded exposes the migrations compiled into the binary.
func Embedded() fs.FS {
	return embeddedMigrations
}

// Run executes a goose command. An empty dir selects the embedded migrations.
func Run(ctx context.Context, db *sql.DB, dialect, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	return withGoose(dialect, dir, func(resolved string) error {
		// RunContext prints status output to stdout (goose internal)
		if err := goose.RunContext(ctx, command, db, resolved, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// Version returns the schema version currently recorded in the database.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("db is required")
	}
	var version int64
	err := withGoose(dialect, "", func(string) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	if db == nil {
		return fmt.Errorf("db is required")
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	return withGoose(dialect, dir, func(resolved string) error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}

		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, resolved, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
			return nil
		default:
			if err := goose.DownToContext(ctx, db, resolved, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
			return nil
		}
	})
}

func withGoose(dialect, dir string, fn func(resolved string) error) error {
	if dialect == "" {
		return fmt.Errorf("dialect is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	resolved := dir
	if dir == "" {
		goose.SetBaseFS(embeddedMigrations)
		resolved = embeddedDir
	} else {
		goose.SetBaseFS(nil)
	}
	defer goose.SetBaseFS(nil)

	return fn(resolved)
}

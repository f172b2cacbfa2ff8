package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), config.DefaultSQLiteFile),
	}
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return client
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := newTestClient(t)
	db := client.DB()

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Driver() != config.DriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
}

func TestDuplicatePrimaryKeyIsTranslated(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.DB().WithContext(ctx).Create(&testModel{ID: 7, Name: "first"}).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := client.DB().WithContext(ctx).Create(&testModel{ID: 7, Name: "second"}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("app_database"); got != "file:app_database?"+sqlitePragmas {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := SQLiteDSN("file::memory:?cache=shared"); got != "file::memory:?cache=shared" {
		t.Fatalf("dsn with query should be untouched, got %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pgx", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "pgx other", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "sqlite pk", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, want: true},
		{name: "sqlite check", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, want: false},
		{name: "message", err: errors.New(`ERROR: duplicate key value violates unique constraint "drink_pkey"`), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v)=%v want %v", tc.err, got, tc.want)
			}
		})
	}
	if !IsNotFound(fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected IsNotFound to unwrap")
	}
}

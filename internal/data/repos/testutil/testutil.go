package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/db"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// DB returns a migrated database for one test. With TEST_POSTGRES_DSN set it
// is a Postgres transaction rolled back on cleanup; otherwise a private
// in-memory SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return DBWithScope(tb, domainagg.NameScopeGlobal)
}

func DBWithScope(tb testing.TB, scope domainagg.NameScope) *gorm.DB {
	tb.Helper()
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return postgresTx(tb, dsn, scope)
	}
	return sqliteDB(tb, scope)
}

func sqliteDB(tb testing.TB, scope domainagg.NameScope) *gorm.DB {
	tb.Helper()
	conn, err := db.OpenSQLite(":memory:", &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(conn, scope); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func postgresTx(tb testing.TB, dsn string, scope domainagg.NameScope) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		pgDB, pgErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if pgErr != nil {
			return
		}
		if err := db.AutoMigrateAll(pgDB); err != nil {
			pgErr = fmt.Errorf("auto migrate: %w", err)
		}
	})
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	tx := pgDB.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	if err := db.EnsureRecipeIndexes(tx, scope); err != nil {
		tb.Fatalf("recipe indexes: %v", err)
	}
	return tx
}

// Parallelism is the fan-out width services may use against DB(tb). A
// Postgres test DB is a single transaction, which cannot serve concurrent
// queries.
func Parallelism() int {
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		return 1
	}
	return 4
}

package testutil

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbsvc "github.com/yungbote/dayplanner-backend/internal/data/db"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// DB returns a migrated database. With TEST_POSTGRES_DSN set, a shared
// postgres handle is returned; otherwise each call gets a private in-memory
// sqlite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN")); dsn != "" {
		return postgresDB(tb, dsn)
	}
	return sqliteDB(tb)
}

func postgresDB(tb testing.TB, dsn string) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		pgDB, pgErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if pgErr != nil {
			return
		}
		if pgErr = dbsvc.AutoMigrateAll(pgDB); pgErr != nil {
			return
		}
		pgErr = dbsvc.EnsurePlannerIndexes(pgDB)
	})
	if pgErr != nil {
		tb.Fatalf("failed to init postgres test db: %v", pgErr)
	}
	return pgDB
}

func sqliteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	svc, err := dbsvc.NewSQLiteService(Logger(tb), dsn)
	if err != nil {
		tb.Fatalf("open sqlite test db: %v", err)
	}
	svc.DB().Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("migrate sqlite test db: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	return svc.DB()
}

// Tx begins a transaction that is rolled back when the test ends. Only pass
// the returned handle to code under test; sqlite test databases hold a
// single connection.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

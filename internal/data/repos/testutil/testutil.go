package testutil

import (
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// sqlite has no now() or uuid_generate_v4(), which the model column
// defaults reference; register shims so the sqlite test DB accepts the
// same schema as Postgres.
func init() {
	sql.Register("sqlite3_testutil", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("now", func() string {
				return time.Now().Format("2006-01-02 15:04:05.999999999-07:00")
			}, false); err != nil {
				return err
			}
			return conn.RegisterFunc("uuid_generate_v4", func() string {
				return uuid.NewString()
			}, false)
		},
	})
}

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg = logger.NewNop()
	})
	return logg
}

// DB returns a shared test database: in-memory sqlite by default, or
// Postgres when TEST_POSTGRES_DSN is set.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			db, dbErr = gorm.Open(postgres.Open(dsn), cfg)
			if dbErr != nil {
				return
			}
			if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
				dbErr = err
				return
			}
		} else {
			db, dbErr = gorm.Open(sqlite.New(sqlite.Config{
				DriverName: "sqlite3_testutil",
				DSN:        "file::memory:?cache=shared",
			}), cfg)
			if dbErr != nil {
				return
			}
		}

		dbErr = autoMigrateAll(db)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

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

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},

		&types.TaskTemplate{},
		&types.Task{},
		&types.TaskSchedule{},

		&types.Reward{},
		&types.RewardRule{},
		&types.RewardRedemption{},

		&types.Objective{},

		&types.BaseballGame{},
		&types.BaseballStats{},
		&types.PitchingGame{},
		&types.PitchingStats{},
	)
}

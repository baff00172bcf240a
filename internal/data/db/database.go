package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/diperi/dugout-backend/internal/platform/logger"
	"github.com/diperi/dugout-backend/internal/utils"
)

// DatabaseService opens the backing store. DB_DRIVER selects postgres
// (default) or sqlite for single-binary home-server deployments.
type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDatabaseService(logg *logger.Logger) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", logg))

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "dugout.db", logg)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLog,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", logg)
		postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", logg)
		postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
		postgresName := utils.GetEnv("POSTGRES_NAME", "dugout", logg)

		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser,
			postgresPassword,
			postgresHost,
			postgresPort,
			postgresName,
		)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLog,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}

		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
		}
	}

	serviceLog.Info("Database opened", "driver", driver)
	return &DatabaseService{db: db, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

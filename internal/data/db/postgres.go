package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// Service owns the process-wide gorm handle.
type Service struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

// Open connects using cfg.Driver.
func Open(logg *logger.Logger, cfg Config) (*Service, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		return NewPostgresService(logg, cfg)
	case DriverSQLite:
		return NewSQLiteService(logg, cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func NewPostgresService(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "PostgresService")
	serviceLog.Info("Connecting to postgres...", "host", cfg.Host, "port", cfg.Port, "name", cfg.Name)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Service{db: db, log: serviceLog, driver: DriverPostgres}, nil
}

func NewSQLiteService(logg *logger.Logger, dsn string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	serviceLog.Info("Opening sqlite database...", "dsn", dsn)

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// sqlite allows a single writer; serializing connections avoids SQLITE_BUSY under load.
	sqlDB.SetMaxOpenConns(1)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

func gormConfig(logg *logger.Logger) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(
			zap.NewStdLog(logg.SugaredLogger.Desugar()),
			gormLogger.Config{
				SlowThreshold:             1 * time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	return EnsurePlannerIndexes(s.db)
}

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"educa_backend/internals/configs"
)

var DB *gorm.DB

// ConnectDB opens the configured dialect. SQLite is the local default; PostgreSQL is used
// when DB_DRIVER=postgres.
func ConnectDB(cfg configs.Config, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: configs.NewGormLogger(log)}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres", "postgresql":
		log.Info("connecting to PostgreSQL")
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DBDSN,
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		})
	case "sqlite", "":
		if dir := filepath.Dir(cfg.DBDSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		log.Info("opening SQLite database", zap.String("path", cfg.DBDSN))
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	DB = db
	TunePool(db, cfg.DBDriver, log)
	log.Info("DB connected")
	return db, nil
}

func TunePool(db *gorm.DB, driver string, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("pool tune failed", zap.Error(err))
		return
	}
	if driver == "sqlite" || driver == "" {
		// single writer; avoids SQLITE_BUSY under concurrent handlers
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB, log *zap.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"invoicing/config"
	"invoicing/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrIsolationUnsupported the store cannot open serializable transactions.
// Identifier allocation depends on them, so this is a fatal configuration error.
var ErrIsolationUnsupported = errors.New("database does not support serializable transactions")

// Init connects, migrates and bootstraps the database
func Init(cfg *config.Config) error {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	db, err := Open(cfg.Database, level)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := CheckSerializable(ctx, db); err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	// the counter row exists before the first allocation
	if err := EnsureCounter(ctx, db); err != nil {
		return err
	}

	if err := SeedUsers(ctx, db, cfg.Auth.SeedUsers); err != nil {
		return err
	}

	DB = db
	log.Println("database initialised")
	return nil
}

// Open connects using the configured driver and applies pool settings
func Open(cfg config.DatabaseConfig, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite has a single writer, one connection keeps writers queued instead of failing busy
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return db, nil
}

// Dialector builds the gorm dialector for cfg.Driver
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		charset := cfg.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=UTC",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			charset,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.Username,
			cfg.Password,
			cfg.DBName,
			sslMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, errors.New("database.path is required for sqlite")
		}
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Counter{},
		&models.User{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
	)
}

// CheckSerializable opens and rolls back one serializable transaction
func CheckSerializable(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return fmt.Errorf("%w: %v", ErrIsolationUnsupported, tx.Error)
	}
	return tx.Rollback().Error
}

// EnsureCounter inserts the singleton counter row with its defaults when missing.
// It commits on its own so that the first allocation still runs against an
// existing row under serializable isolation. Inserting is idempotent on the
// fixed primary key.
func EnsureCounter(ctx context.Context, db *gorm.DB) error {
	counter := models.NewCounter()
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter).Error
	if err != nil {
		return fmt.Errorf("create counter: %w", err)
	}
	return nil
}

// SeedUsers creates the configured users when the users table is empty
func SeedUsers(ctx context.Context, db *gorm.DB, users []config.SeedUser) error {
	if len(users) == 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := db.WithContext(ctx).Create(&models.User{Email: email, Password: string(hash)}).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		log.Printf("seeded user %s", email)
	}
	return nil
}

// GetDB returns the database handle
func GetDB() *gorm.DB {
	return DB
}

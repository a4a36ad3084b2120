// Package db provides database connectivity for the reference store
// implementation.
package db

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/restbridge/restbridge/internal/db/models"
)

// Connection defaults.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultUser     = "postgres"
	DefaultPassword = "postgres"
	DefaultDBName   = "postgres"
)

// Options represents database connection configuration options
type Options struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     int
	SSL      bool
	LogLevel logger.LogLevel
}

// New creates a new database connection with the given options
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)
	sslMode := "disable"
	if opts.SSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, sslMode)

	// Record-not-found is an expected outcome for lookups, keep it out of
	// the logs.
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	if err := seedRegistry(db); err != nil {
		return nil, fmt.Errorf("failed to seed the schema registry: %w", err)
	}
	return db, nil
}

func setDefaults(opts Options) Options {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.User == "" {
		opts.User = DefaultUser
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	return opts
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RegistryModel{},
		&models.RegistryField{},
		&models.ModelAccess{},
		&models.OAuthProvider{},
		&models.User{},
	)
}

// seedRegistry registers the built-in user model so authentication and
// the BREAD surface work against a fresh database.
func seedRegistry(db *gorm.DB) error {
	var existing models.RegistryModel
	err := db.Where("name = ?", models.UserModelName).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	entry := models.RegistryModel{
		Name:  models.UserModelName,
		Table: "users",
		Fields: []models.RegistryField{
			{Name: "id", Label: "ID", Type: "integer"},
			{Name: "display_name", Label: "Display Name", Type: "char"},
			{Name: "login", Label: "Login", Type: "char", Required: true},
			{Name: "active", Label: "Active", Type: "boolean"},
		},
	}
	return db.Create(&entry).Error
}

package database

import (
	"errors"
	"fmt"
	"time"

	"pocketbook/internal/logger"
	"pocketbook/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MigrationsSource is where the SQL migrations live relative to the working
// directory.
const MigrationsSource = "file://migrations"

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens a connection for the configured driver.
func NewManager(config *Config) (*Manager, error) {
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch config.Driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(config.DSN()+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig)
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true,
		}), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY under concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, config: config}, nil
}

// RunMigrations brings the schema up to date. Postgres uses the versioned SQL
// files under migrations/; SQLite is migrated from the model definitions.
func (m *Manager) RunMigrations() error {
	log := logger.Get()
	log.Infow("Running database migrations", "driver", m.config.Driver)

	if m.config.Driver == DriverSQLite {
		if err := AutoMigrate(m.db); err != nil {
			return err
		}
		log.Info("Database migrations completed successfully")
		return nil
	}

	mig, err := m.newMigrate()
	if err != nil {
		return err
	}
	defer closeMigrate(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// sqliteIndexes are the partial indexes from migrations/ that model tags
// cannot express.
var sqliteIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_sessions_one_active
		ON work_sessions (user_id) WHERE clock_out IS NULL AND deleted_at IS NULL`,
}

// AutoMigrate builds the sqlite schema from the model definitions.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	for _, stmt := range sqliteIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// RollbackMigrations reverts the given number of migration steps.
func (m *Manager) RollbackMigrations(steps int) error {
	if m.config.Driver == DriverSQLite {
		return fmt.Errorf("rollback is not supported for the sqlite driver")
	}
	mig, err := m.newMigrate()
	if err != nil {
		return err
	}
	defer closeMigrate(mig)

	if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied migration version and dirty flag.
func (m *Manager) MigrationVersion() (uint, bool, error) {
	if m.config.Driver == DriverSQLite {
		return 0, false, fmt.Errorf("versioned migrations are not used with the sqlite driver")
	}
	mig, err := m.newMigrate()
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(mig)

	version, dirty, err := mig.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *Manager) newMigrate() (*migrate.Migrate, error) {
	mig, err := migrate.New(MigrationsSource, m.config.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

func closeMigrate(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

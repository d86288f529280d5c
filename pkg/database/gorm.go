package database

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

func getLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true,        // Don't include params in the SQL log
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(maxOpen)

	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// IsSQLite reports whether dsn selects the embedded SQLite driver:
// "sqlite://path", "file:..." or ":memory:".
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, sqliteScheme) || strings.HasPrefix(dsn, "file:") || dsn == ":memory:"
}

// NewGormDBFromDSN opens Postgres for "postgres://" / "host=..." DSNs and
// SQLite otherwise (see IsSQLite).
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	dialector := postgres.Open(dsn)
	maxOpen := 100
	if IsSQLite(dsn) {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqliteScheme))
		// SQLite serializes writers; a single connection avoids "database is locked".
		maxOpen = 1
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, maxOpen); err != nil {
		return nil, err
	}

	return db, nil
}

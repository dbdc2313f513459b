package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juju/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverMySQL is the production driver name.
	DriverMySQL = "mysql"
	// DriverSQLite is the embedded driver used for development and tests.
	DriverSQLite = "sqlite3"
)

// Options describes how to reach the datastore.
type Options struct {
	Driver   string
	User     string
	Pass     string
	Host     string
	Port     string
	Name     string
	Path     string // sqlite file, ":memory:" when empty
	PoolSize int
}

// DSN renders the driver specific data source name.
func (o Options) DSN() (string, error) {
	switch o.Driver {
	case "", DriverMySQL:
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, o.Host, o.Port, o.Name), nil
	case DriverSQLite:
		path := o.Path
		if path == "" {
			path = ":memory:"
		}
		return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000", nil
	}
	return "", errors.NotSupportedf("database driver %q", o.Driver)
}

// Open connects to the datastore and verifies the connection. The pool is
// capped at PoolSize connections.
func Open(opts Options) (*sql.DB, error) {
	dsn, err := opts.DSN()
	if err != nil {
		return nil, err
	}
	driver := opts.Driver
	if driver == "" {
		driver = DriverMySQL
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Annotatef(err, "opening %s database", driver)
	}

	// Pool settings
	size := opts.PoolSize
	if size <= 0 {
		size = 15
	}
	if driver == DriverSQLite && opts.Path == "" {
		// every connection to ":memory:" is a separate database
		size = 1
	}
	db.SetMaxOpenConns(size)
	db.SetMaxIdleConns(size)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Annotate(err, "pinging database")
	}
	return db, nil
}

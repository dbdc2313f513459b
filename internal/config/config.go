package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"

	"github.com/juju/errors"

	"github.com/iliyamo/labquiz/internal/database"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBDriver       string // "mysql" or "sqlite3"
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBPath         string // sqlite file (sqlite3 only)
	DBPoolSize     int    // maximum open connections
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing
	LogLevel       string // zap level name
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must(); every missing or
// malformed value is reported in the returned error.
func Load() (Config, error) {
	var l loader
	cfg := Config{
		Env:            l.must("APP_ENV"),                                          // environment (dev/test/prod)
		Port:           l.must("APP_PORT"),                                         // port to bind the HTTP server
		DBDriver:       strings.ToLower(envStr("DB_DRIVER", database.DriverMySQL)), // mysql unless overridden
		DBPass:         os.Getenv("DB_PASS"),                                       // database password (empty allowed)
		DBPath:         os.Getenv("DB_PATH"),                                       // empty means in-memory
		DBPoolSize:     envInt("DB_POOL_SIZE", 15),                                 // connection pool size
		JWTSecret:      l.must("JWT_SECRET"),                                       // secret used for signing JWTs
		AccessTTLMin:   l.mustInt("ACCESS_TOKEN_TTL_MIN"),                          // TTL for access tokens in minutes
		RefreshTTLDays: l.mustInt("REFRESH_TOKEN_TTL_DAYS"),                        // TTL for refresh tokens in days
		BcryptCost:     l.mustInt("BCRYPT_COST"),                                   // bcrypt cost factor
		LogLevel:       envStr("LOG_LEVEL", "info"),                                // zap level
	}
	switch cfg.DBDriver {
	case database.DriverMySQL:
		cfg.DBUser = l.must("DB_USER")
		cfg.DBHost = l.must("DB_HOST")
		cfg.DBPort = l.must("DB_PORT")
		cfg.DBName = l.must("DB_NAME")
	case database.DriverSQLite:
	default:
		l.fail(errors.NotSupportedf("DB_DRIVER %q", cfg.DBDriver))
	}
	if cfg.DBPoolSize < 1 {
		cfg.DBPoolSize = 1
	}
	return cfg, l.err()
}

// Database returns the connection options described by cfg.
func (cfg Config) Database() database.Options {
	return database.Options{
		Driver:   cfg.DBDriver,
		User:     cfg.DBUser,
		Pass:     cfg.DBPass,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		Path:     cfg.DBPath,
		PoolSize: cfg.DBPoolSize,
	}
}

// loader collects configuration problems so they can be reported together.
type loader struct {
	problems []string
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the problem is recorded.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.problems = append(l.problems, "missing required env var: "+key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.problems = append(l.problems, "invalid int for "+key+": "+strconv.Quote(s))
	}
	return n
}

func (l *loader) fail(err error) {
	l.problems = append(l.problems, err.Error())
}

func (l *loader) err() error {
	if len(l.problems) == 0 {
		return nil
	}
	return errors.NotValidf("configuration (%s)", strings.Join(l.problems, "; "))
}

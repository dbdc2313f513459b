package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"

	"github.com/iliyamo/labquiz/internal/database"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoadSQLite(t *testing.T) {
	c := qt.New(t)
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/labquiz.db")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.DBPoolSize, qt.Equals, 15)
	c.Assert(cfg.Database(), qt.DeepEquals, database.Options{
		Driver:   database.DriverSQLite,
		Path:     "/tmp/labquiz.db",
		PoolSize: 15,
	})
}

func TestLoadMySQLRequiresConnectionSettings(t *testing.T) {
	c := qt.New(t)
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_HOST", "db")
	for _, k := range []string{"DB_USER", "DB_PORT", "DB_NAME"} {
		t.Setenv(k, "")
	}

	_, err := Load()
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `.*missing required env var: DB_USER.*DB_PORT.*DB_NAME.*`)
}

func TestLoadReportsBadInt(t *testing.T) {
	c := qt.New(t)
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("BCRYPT_COST", "high")

	_, err := Load()
	c.Assert(err, qt.ErrorMatches, `.*invalid int for BCRYPT_COST: "high".*`)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	c := qt.New(t)
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	c.Assert(cfg.Capacity, qt.Equals, 1)
	c.Assert(cfg.RefillTokens, qt.Equals, 1)
	c.Assert(cfg.RefillInterval, qt.Equals, 2*time.Second)
	c.Assert(cfg.TTL, qt.Equals, 10*time.Second)
}

func TestLoadQueueConfig(t *testing.T) {
	c := qt.New(t)
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("AUDIT_QUEUE", "")

	cfg := LoadQueueConfig()
	c.Assert(cfg, qt.Equals, QueueConfig{URL: "amqp://guest:guest@mq:5672/", Queue: "access.audit"})
}

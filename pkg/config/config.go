package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Inventory    InventoryConfig
	Reconciler   ReconcilerConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROOMLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"ROOMLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROOMLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROOMLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ROOMLEDGER_SERVICE_KIND" default:"booking-api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ROOMLEDGER_DB_DSN"`
	Driver string `envconfig:"ROOMLEDGER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROOMLEDGER_DB_HOST"`
	LegacyPort     int    `envconfig:"ROOMLEDGER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROOMLEDGER_DB_USER"`
	LegacyPassword string `envconfig:"ROOMLEDGER_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROOMLEDGER_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROOMLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROOMLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROOMLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROOMLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROOMLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROOMLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROOMLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"ROOMLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROOMLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROOMLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROOMLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROOMLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROOMLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROOMLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// InventoryConfig points the booking side at the inventory service. The
// base URL is resolved once at process start and injected; flow code never
// sees a literal endpoint.
type InventoryConfig struct {
	BaseURL     string        `envconfig:"ROOMLEDGER_INVENTORY_BASE_URL" default:"http://localhost:8001"`
	CallTimeout time.Duration `envconfig:"ROOMLEDGER_INVENTORY_CALL_TIMEOUT" default:"5s"`
}

type ReconcilerConfig struct {
	Interval time.Duration `envconfig:"ROOMLEDGER_RECONCILER_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"ROOMLEDGER_RECONCILER_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"ROOMLEDGER_AUTO_MIGRATE" default:"false"`
	SeedSampleData bool `envconfig:"ROOMLEDGER_SEED_SAMPLE_DATA" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

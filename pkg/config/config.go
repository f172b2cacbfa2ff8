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
	DB           DBConfig
	Redis        RedisConfig
	HTTP         HTTPConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DRINKSHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"DRINKSHOP_APP_PORT" default:"8080"`
	InstanceID   string `envconfig:"DRINKSHOP_INSTANCE_ID"`
	LogLevel     string `envconfig:"DRINKSHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"DRINKSHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"DRINKSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"DRINKSHOP_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DRINKSHOP_DB_DSN"`

	Host     string `envconfig:"DRINKSHOP_DB_HOST"`
	Port     int    `envconfig:"DRINKSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"DRINKSHOP_DB_USER"`
	Password string `envconfig:"DRINKSHOP_DB_PASSWORD"`
	Name     string `envconfig:"DRINKSHOP_DB_NAME"`
	SSLMode  string `envconfig:"DRINKSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DRINKSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DRINKSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DRINKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DRINKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded engine is configured.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// MigrationDialect returns the goose dialect matching the configured driver.
func (db DBConfig) MigrationDialect() string {
	if db.IsSQLite() {
		return "sqlite3"
	}
	return "postgres"
}

type RedisConfig struct {
	URL          string        `envconfig:"DRINKSHOP_REDIS_URL"`
	Address      string        `envconfig:"DRINKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"DRINKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DRINKSHOP_REDIS_DB" default:"0"`
	Channel      string        `envconfig:"DRINKSHOP_REDIS_CART_CHANNEL" default:"changes"`
	PoolSize     int           `envconfig:"DRINKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DRINKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DRINKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DRINKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DRINKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type HTTPConfig struct {
	AllowedOrigins  []string      `envconfig:"DRINKSHOP_HTTP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ReadTimeout     time.Duration `envconfig:"DRINKSHOP_HTTP_READ_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"DRINKSHOP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type CartConfig struct {
	StreamHeartbeat time.Duration `envconfig:"DRINKSHOP_CART_STREAM_HEARTBEAT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DRINKSHOP_AUTO_MIGRATE" default:"true"`
}

func (db *DBConfig) normalize() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverSQLite:
		if db.DSN == "" {
			db.DSN = DefaultSQLiteFile
		}
		return nil
	case DriverPostgres:
		return db.ensurePostgresDSN()
	default:
		return fmt.Errorf("unsupported %s %q (expected %s or %s)", EnvDBDriver, db.Driver, DriverSQLite, DriverPostgres)
	}
}

func (db *DBConfig) ensurePostgresDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

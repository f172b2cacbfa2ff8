package config

// EnvPrefix is passed to envconfig; every field carries an explicit envconfig tag so the
// prefix only matters for fields added without one.
const EnvPrefix = "DRINKSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSQLiteFile is the on-disk store used when no DSN is configured.
	DefaultSQLiteFile = "app_database"
)

const (
	EnvAppEnv     = "DRINKSHOP_APP_ENV"
	EnvPort       = "DRINKSHOP_APP_PORT"
	EnvInstanceID = "DRINKSHOP_INSTANCE_ID"
	EnvLogLevel   = "DRINKSHOP_LOG_LEVEL"
	EnvLogFormat  = "DRINKSHOP_LOG_FORMAT"

	EnvDBDriver = "DRINKSHOP_DB_DRIVER"
	EnvDBDSN    = "DRINKSHOP_DB_DSN"
	EnvDBHost   = "DRINKSHOP_DB_HOST"
	EnvDBPort   = "DRINKSHOP_DB_PORT"
	EnvDBUser   = "DRINKSHOP_DB_USER"
	EnvDBName   = "DRINKSHOP_DB_NAME"

	EnvRedisURL     = "DRINKSHOP_REDIS_URL"
	EnvRedisChannel = "DRINKSHOP_REDIS_CART_CHANNEL"

	EnvAllowedOrigins  = "DRINKSHOP_HTTP_ALLOWED_ORIGINS"
	EnvStreamHeartbeat = "DRINKSHOP_CART_STREAM_HEARTBEAT"
	EnvAutoMigrate     = "DRINKSHOP_AUTO_MIGRATE"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

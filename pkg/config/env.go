package config

const (
	EnvPrefix = "SPEAKEASY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:speakeasy.db?cache=shared"
)

const (
	EnvAppEnv   = "SPEAKEASY_APP_ENV"
	EnvPort     = "SPEAKEASY_PORT"
	EnvLogLevel = "SPEAKEASY_LOG_LEVEL"

	EnvDBDSN    = "SPEAKEASY_DB_DSN"
	EnvDBDriver = "SPEAKEASY_DB_DRIVER"
	EnvDBHost   = "SPEAKEASY_DB_HOST"
	EnvDBPort   = "SPEAKEASY_DB_PORT"
	EnvDBUser   = "SPEAKEASY_DB_USER"
	EnvDBName   = "SPEAKEASY_DB_NAME"

	EnvRedisURL = "SPEAKEASY_REDIS_URL"

	EnvRateLimitWindow = "SPEAKEASY_RATE_LIMIT_WINDOW"
	EnvRateLimitMax    = "SPEAKEASY_RATE_LIMIT_MAX"

	EnvRateLimitTrustedProxies = "SPEAKEASY_RATE_LIMIT_TRUSTED_PROXIES"

	EnvReservationsSlots         = "SPEAKEASY_RESERVATIONS_SLOTS"
	EnvReservationsTimeZone      = "SPEAKEASY_RESERVATIONS_TIMEZONE"
	EnvReservationsDiscountEvery = "SPEAKEASY_RESERVATIONS_DISCOUNT_EVERY"
	EnvReservationsCodeAttempts  = "SPEAKEASY_RESERVATIONS_CODE_ATTEMPTS"

	EnvGCPProjectID            = "SPEAKEASY_GCP_PROJECT_ID"
	EnvPubSubReservationsTopic = "SPEAKEASY_PUBSUB_RESERVATIONS_TOPIC"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

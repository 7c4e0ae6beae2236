package config

const EnvPrefix = "FOOTBALLZONES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	MinBcryptCost   = 10
	MaxBcryptCost   = 14
	minSecretLength = 16
)

const (
	EnvAppEnv           = "FOOTBALLZONES_APP_ENV"
	EnvPort             = "FOOTBALLZONES_APP_PORT"
	EnvDBDSN            = "FOOTBALLZONES_DB_DSN"
	EnvDBDriver         = "FOOTBALLZONES_DB_DRIVER"
	EnvDBHost           = "FOOTBALLZONES_DB_HOST"
	EnvDBUser           = "FOOTBALLZONES_DB_USER"
	EnvDBName           = "FOOTBALLZONES_DB_NAME"
	EnvRedisURL         = "FOOTBALLZONES_REDIS_URL"
	EnvJWTSecret        = "FOOTBALLZONES_JWT_SECRET"
	EnvJWTRefreshSecret = "FOOTBALLZONES_JWT_REFRESH_SECRET"
	EnvJWTExpiresIn     = "FOOTBALLZONES_JWT_EXPIRES_IN"
	EnvBcryptCost       = "FOOTBALLZONES_BCRYPT_COST"
	EnvViewsWorkers     = "FOOTBALLZONES_VIEWS_WORKERS"
	EnvViewsQueueSize   = "FOOTBALLZONES_VIEWS_QUEUE_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

const (
	EnvPrefix = "WBSYNC"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WBSYNC_APP_ENV"
	EnvRedisURL = "WBSYNC_REDIS_URL"

	EnvDBDSN  = "WBSYNC_DB_DSN"
	EnvDBHost = "WBSYNC_DB_HOST"
	EnvDBUser = "WBSYNC_DB_USER"
	EnvDBName = "WBSYNC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

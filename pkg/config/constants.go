package config

// EnvPrefix namespaces every environment variable the services read.
const EnvPrefix = "ROOMLEDGER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ROOMLEDGER_APP_ENV"
	EnvPort     = "ROOMLEDGER_APP_PORT"
	EnvRedisURL = "ROOMLEDGER_REDIS_URL"

	EnvDBDSN  = "ROOMLEDGER_DB_DSN"
	EnvDBHost = "ROOMLEDGER_DB_HOST"
	EnvDBUser = "ROOMLEDGER_DB_USER"
	EnvDBName = "ROOMLEDGER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

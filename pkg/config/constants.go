package config

// EnvPrefix scopes envconfig processing to QUICKCART_* variables.
const EnvPrefix = "QUICKCART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "QUICKCART_APP_ENV"
	EnvPort   = "QUICKCART_APP_PORT"
	EnvDBDSN  = "QUICKCART_DB_DSN"
	EnvDBHost = "QUICKCART_DB_HOST"
	EnvDBUser = "QUICKCART_DB_USER"
	EnvDBName = "QUICKCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

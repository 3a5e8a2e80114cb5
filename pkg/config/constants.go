package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "audiohive"

const (
	AppEnvDev     = "dev"
	AppEnvStaging = "staging"
	AppEnvProd    = "prod"
)

const (
	EnvDBDSN  = "AUDIOHIVE_DB_DSN"
	EnvDBHost = "AUDIOHIVE_DB_HOST"
	EnvDBUser = "AUDIOHIVE_DB_USER"
	EnvDBName = "AUDIOHIVE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

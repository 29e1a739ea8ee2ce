package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry full names so
	// the prefix stays empty to avoid double-prefixing.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "FRESHSTART_APP_ENV"
	EnvDBDSN  = "FRESHSTART_DB_DSN"
	EnvDBHost = "FRESHSTART_DB_HOST"
	EnvDBUser = "FRESHSTART_DB_USER"
	EnvDBName = "FRESHSTART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

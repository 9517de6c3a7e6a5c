package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "VENDORTRACK_APP_ENV"
	EnvPort   = "VENDORTRACK_APP_PORT"

	EnvDBDSN  = "VENDORTRACK_DB_DSN"
	EnvDBHost = "VENDORTRACK_DB_HOST"
	EnvDBUser = "VENDORTRACK_DB_USER"
	EnvDBName = "VENDORTRACK_DB_NAME"

	EnvRedisURL = "VENDORTRACK_REDIS_URL"

	EnvJWTSecret              = "VENDORTRACK_JWT_SECRET"
	EnvJWTIssuer              = "VENDORTRACK_JWT_ISSUER"
	EnvJWTExpMins             = "VENDORTRACK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "VENDORTRACK_REFRESH_TOKEN_TTL_MINUTES"
)

// legacyDBEnvVars are the discrete connection variables accepted when a DSN is
// not provided.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

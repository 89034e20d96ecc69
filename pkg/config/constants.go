package config

const (
	EnvPrefix = "tet"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced from tests and bootstrap code.
const (
	EnvAppEnv          = "TET_APP_ENV"
	EnvPort            = "TET_APP_PORT"
	EnvRedisURL        = "TET_REDIS_URL"
	EnvPricingBaseURL  = "TET_PRICING_BASE_URL"
	EnvCheckoutBaseURL = "TET_CHECKOUT_BASE_URL"
)

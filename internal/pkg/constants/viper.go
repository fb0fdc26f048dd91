package constants

// Viper configuration keys.
const (
	ViperServerAddr        = "server.addr"
	ViperServerCORSOrigins = "server.cors_origins"
	ViperShutdownTimeout   = "server.shutdown_timeout"

	ViperPostgresDSN = "postgres.dsn"

	ViperFeedDriver    = "feed.driver"
	ViperFeedPGChannel = "feed.pg_channel"

	ViperRedisAddr    = "redis.addr"
	ViperRedisChannel = "redis.channel"

	ViperDashboardDebounce = "dashboard.debounce"
	ViperDashboardTick     = "dashboard.tick"

	ViperLogLevel = "log.level"
	ViperLogMode  = "log.mode"
)

// Feed drivers.
const (
	FeedDriverLocal    = "local"
	FeedDriverPostgres = "postgres"
	FeedDriverRedis    = "redis"
)

const CtxKeyRequestID = "request_id"

package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvGatewaySigningSecret = "GATEWAY_SIGNING_SECRET"
	EnvRedisURL             = "REDIS_URL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvListingCacheSize = "LISTING_CACHE_SIZE"
	EnvListingCacheTTL  = "LISTING_CACHE_TTL"
	EnvMaxStayNights    = "MAX_STAY_NIGHTS"

	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
	EnvListingEventsTopic = "LISTING_EVENTS_TOPIC"
	EnvEventsEnabled      = "EVENTS_ENABLED"
)

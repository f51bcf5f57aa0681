package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBookingDayStart = "BOOKING_DAY_START"
	EnvBookingDayEnd   = "BOOKING_DAY_END"

	EnvNotifyWebhookURL     = "NOTIFY_WEBHOOK_URL"
	EnvNotifyTimeout        = "NOTIFY_TIMEOUT"
	EnvEventQueueSize       = "EVENT_QUEUE_SIZE"
	EnvEventWorkers         = "EVENT_WORKERS"
	EnvEventsTopic          = "EVENTS_TOPIC"
	EnvKafkaBrokers         = "KAFKA_BROKERS"
	EnvApproveRetryAttempts = "APPROVE_RETRY_ATTEMPTS"
	EnvApproveRetryBackoff  = "APPROVE_RETRY_BACKOFF"
	EnvSlotLockTTL          = "SLOT_LOCK_TTL"
	EnvStateCacheTTL        = "STATE_CACHE_TTL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservas"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// Business hours window used by availability reporting.
	DefaultBookingDayStart = "08:00"
	DefaultBookingDayEnd   = "18:00"

	DefaultNotifyTimeout        = 10 * time.Second
	DefaultEventQueueSize       = 256
	DefaultEventWorkers         = 2
	DefaultApproveRetryAttempts = 3
	DefaultApproveRetryBackoff  = 50 * time.Millisecond
	DefaultSlotLockTTL          = 10 * time.Second
	DefaultStateCacheTTL        = 30 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

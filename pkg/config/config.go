package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"reservas/pkg/client"
	"reservas/pkg/interval"
	"reservas/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	// Daily business-hours window against which free/busy is computed.
	BookingDayStart string
	BookingDayEnd   string

	NotifyWebhookURL     string
	NotifyTimeout        time.Duration
	EventQueueSize       int
	EventWorkers         int
	EventsTopic          string
	KafkaBrokers         []string
	ApproveRetryAttempts int
	ApproveRetryBackoff  time.Duration
	SlotLockTTL          time.Duration
	StateCacheTTL        time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BookingDayStart: getEnvStr(EnvBookingDayStart, DefaultBookingDayStart),
		BookingDayEnd:   getEnvStr(EnvBookingDayEnd, DefaultBookingDayEnd),

		NotifyWebhookURL:     getEnvStr(EnvNotifyWebhookURL, ""),
		NotifyTimeout:        getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),
		EventQueueSize:       getEnvNum(EnvEventQueueSize, DefaultEventQueueSize),
		EventWorkers:         getEnvNum(EnvEventWorkers, DefaultEventWorkers),
		EventsTopic:          getEnvStr(EnvEventsTopic, ""),
		KafkaBrokers:         getEnvList(EnvKafkaBrokers),
		ApproveRetryAttempts: getEnvNum(EnvApproveRetryAttempts, DefaultApproveRetryAttempts),
		ApproveRetryBackoff:  getEnvDuration(EnvApproveRetryBackoff, DefaultApproveRetryBackoff),
		SlotLockTTL:          getEnvDuration(EnvSlotLockTTL, DefaultSlotLockTTL),
		StateCacheTTL:        getEnvDuration(EnvStateCacheTTL, DefaultStateCacheTTL),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// BookingWindow returns the validated business-hours window.
func (cfg *Config) BookingWindow() interval.Interval {
	start, _ := interval.ParseClock(cfg.BookingDayStart)
	end, _ := interval.ParseClock(cfg.BookingDayEnd)
	return interval.Interval{Start: start, End: end}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	start, errStart := interval.ParseClock(cfg.BookingDayStart)
	if errStart != nil {
		errors = append(errors, fmt.Sprintf("BookingDayStart must be in HH:MM format, got: %s", cfg.BookingDayStart))
	}
	end, errEnd := interval.ParseClock(cfg.BookingDayEnd)
	if errEnd != nil {
		errors = append(errors, fmt.Sprintf("BookingDayEnd must be in HH:MM format, got: %s", cfg.BookingDayEnd))
	}
	if errStart == nil && errEnd == nil && start >= end {
		errors = append(errors, fmt.Sprintf("BookingDayStart (%s) must be before BookingDayEnd (%s)", cfg.BookingDayStart, cfg.BookingDayEnd))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.EventQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("EventQueueSize must be positive, got: %d", cfg.EventQueueSize))
	}
	if cfg.EventWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("EventWorkers must be positive, got: %d", cfg.EventWorkers))
	}
	if cfg.NotifyTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyTimeout must be positive, got: %s", cfg.NotifyTimeout))
	}
	if cfg.EventsTopic != "" && len(cfg.KafkaBrokers) == 0 {
		errors = append(errors, "KafkaBrokers is required when EventsTopic is set")
	}
	if cfg.ApproveRetryAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ApproveRetryAttempts must be positive, got: %d", cfg.ApproveRetryAttempts))
	}
	if cfg.ApproveRetryBackoff < 0 {
		errors = append(errors, fmt.Sprintf("ApproveRetryBackoff cannot be negative, got: %s", cfg.ApproveRetryBackoff))
	}
	if cfg.SlotLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SlotLockTTL must be positive, got: %s", cfg.SlotLockTTL))
	}
	if cfg.StateCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("StateCacheTTL cannot be negative, got: %s", cfg.StateCacheTTL))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"booking_day_start", cfg.BookingDayStart,
		"booking_day_end", cfg.BookingDayEnd,
		"notify_webhook_set", cfg.NotifyWebhookURL != "",
		"notify_timeout", cfg.NotifyTimeout,
		"event_queue_size", cfg.EventQueueSize,
		"event_workers", cfg.EventWorkers,
		"events_topic", cfg.EventsTopic,
		"kafka_brokers", len(cfg.KafkaBrokers),
		"approve_retry_attempts", cfg.ApproveRetryAttempts,
		"approve_retry_backoff", cfg.ApproveRetryBackoff,
		"slot_lock_ttl", cfg.SlotLockTTL,
		"state_cache_ttl", cfg.StateCacheTTL,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gearbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultEventsTopic    = "gearbook.inventory.events"
	DefaultEventsDLQTopic = "gearbook.inventory.events.dlq"

	DefaultInventoryBaseURL = "http://localhost:8080"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultUsefulLifeMonths = 36
	DefaultMaxReservationDays      = 365

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)

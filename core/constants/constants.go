package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist  = "auth:blacklist:"
	RedisKeyUnreadCount     = "notification:unread:"
	RedisKeyCalendarVersion = "calendar:version:"
	RedisKeyCalendarRange   = "calendar:range:"
)

// Database pool tuning
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Asynq task types
const (
	TaskTypeNotifyTransition = "notification:transition"
)

// Cron schedules
const (
	CronAvailabilityReconcile = "@every 15m"
)

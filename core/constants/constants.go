package constants

import "time"

// Timeouts
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
	CalendarAPITimeout    = 15 * time.Second
	ShutdownTimeout       = 10 * time.Second
)

// Database
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 5 // minutes
	DatabaseSSLMode         = "disable"
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess = "access"
	TokenTTL         = 24 * time.Hour
)

// Redis keys
const (
	RedisKeyBusyIntervals = "busy:"
	RedisKeyBookingRate   = "rl:booking:"
	BusyCacheTTL          = time.Minute
)

// Booking
const (
	DefaultCandidateStepMinutes = 15
	DefaultBookingHorizonDays   = 60
	DefaultBookingRateLimit     = 20
	DefaultBookingRateWindow    = time.Minute
	MaxEventDurationMinutes     = 12 * 60
	MaxSlotRangeDays            = 31
)

// Queue
const (
	TaskBookingConfirmed = "booking:confirmed"
	QueueDefault         = "default"
	TaskMaxRetry         = 5
)

// Calendar providers
const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

// Notification types
const (
	NotificationBookingConfirmed = "booking_confirmed"
)

package constants

// Session
const (
	SessionCookieName = "tracker_session"
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinPasswordLength = 6
	MaxCategoryName   = 100
	MaxTitleLength    = 100
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Statistics
const (
	DefaultStatsWindowDays = 30
	DailyActivityDays      = 7
)

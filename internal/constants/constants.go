package constants

const (
	// ContextKeyUserID is the session and gin context key holding the signed-in user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyCurrentUser holds the loaded *models.User set by RequireDirector.
	ContextKeyCurrentUser = "current_user"

	SessionCookieName = "talent_session"

	MinPasswordLength = 6

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Working-age bounds used by the registration form.
	MinWorkingAge = 16
	MaxAge        = 100
)

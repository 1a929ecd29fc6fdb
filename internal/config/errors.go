package config

const (
	// Console messages
	ErrLoginFailed       = "Login failed"
	ErrBadCredentials    = "Invalid username or password"
	ErrSessionExpired    = "Session expired, please log in again"
	ErrNotAuthenticated  = "Not authenticated"
	ErrPublishInProgress = "A save is already in progress"
)

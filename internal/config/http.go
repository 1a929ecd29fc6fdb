package config

const (
	HCType     = "Content-Type"
	HAccept    = "Accept"
	HRequestID = "X-Request-Id"

	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
	HTTPErrUnauthorized     = "Unauthorized"
	HTTPErrBadRequest       = "Bad request"
	HTTPErrUnsupportedMedia = "Only image uploads are accepted"
	HTTPErrTooManyPhotos    = "Too many photos in one upload"
	HTTPErrNotFound         = "Not found"
)

const (
	CookieSession = "session"
)

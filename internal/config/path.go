package config

const (
	//? These paths must match the content service routes

	APIStatus  = "/api/admin/status"
	APILogin   = "/api/admin/login"
	APIHome    = "/api/home"
	APICopy    = "/api/admin/home"
	APINotices = "/api/admin/notices"
	APITheme   = "/api/admin/theme"
	APICollage = "/api/admin/collage"

	// Served by the devserver; collage photo URLs point here.
	CollagePhotoPath = "/collage/"

	QueryLanguage = "language"

	// Multipart field carrying collage images.
	FormFieldImages = "images"

	PrefsFileName = "prefs.db"
)

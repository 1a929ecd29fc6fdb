package config

const (
	EnvBaseURL           = "HOMEADMIN_BASE_URL"
	EnvUsername          = "HOMEADMIN_USERNAME"
	EnvPassword          = "HOMEADMIN_PASSWORD"
	EnvLanguage          = "HOMEADMIN_LANGUAGE"
	EnvLogLevel          = "HOMEADMIN_LOG_LEVEL"
	EnvS3Endpoint        = "HOMEADMIN_S3_ENDPOINT"
	EnvS3Bucket          = "HOMEADMIN_S3_BUCKET"
	EnvS3AccessKeyID     = "HOMEADMIN_S3_ACCESS_KEY_ID"
	EnvS3AccessKeySecret = "HOMEADMIN_S3_ACCESS_KEY_SECRET"
)

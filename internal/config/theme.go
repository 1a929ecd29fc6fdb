package config

const (
	OrderingLastResponse  = "last_response"
	OrderingLatestRequest = "latest_request"

	SeedPolicyOverwrite       = "overwrite"
	SeedPolicyPreserveUnsaved = "preserve_unsaved"
)

// Snapshot blob codecs for the preferences store.
const (
	CompressionZstd = "zstd"
	CompressionGzip = "gzip"
	CompressionNone = "none"
)

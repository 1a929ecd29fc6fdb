package config

const (
	MarkdownRenderer = "mmark"

	// Chroma styles used when printing JSON to a terminal.
	SnapshotSyntaxStyle = "gruvbox"
	SnapshotFormatter   = "terminal256"
)

package content

import "github.com/rs/zerolog"

var contentLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	contentLogger = l
}

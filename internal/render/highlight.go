package render

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/homeadmin/internal/cache"
	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/util"
)

// SnapshotJSON pretty-prints snap as highlighted JSON for a terminal.
func SnapshotJSON(snap *content.Snapshot, style string) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}

	hash := util.ContentHash(data)
	if out, ok := cache.GetRendered(hash, "json:"+style); ok {
		return string(out), nil
	}

	out, err := Highlight(string(data), "json", style)
	if err != nil {
		return string(data), err
	}
	cache.SetRendered(hash, "json:"+style, []byte(out))
	return out, nil
}

// Highlight formats source in language for a 256-colour terminal. On failure
// the source is returned unchanged with the error.
func Highlight(source, language, style string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get(config.SnapshotFormatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source, err
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		renderLogger.Warn().Err(err).Str("style", style).Msg("Failed to highlight output")
		return source, err
	}
	return buf.String(), nil
}

// Package render turns console state and content snapshots into terminal and
// HTML output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"

	"github.com/debemdeboas/homeadmin/internal/cache"
	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// PreviewMarkdown lays out mission and about copy the way the home page shows
// it: heading, subheading, mission paragraphs, then the about section with its
// quick links.
func PreviewMarkdown(mission content.Mission, about content.About) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", oneLine(mission.Heading))
	if sub := oneLine(mission.Subheading); sub != "" {
		fmt.Fprintf(&b, "*%s*\n\n", sub)
	}
	for _, p := range mission.Body {
		fmt.Fprintf(&b, "%s\n\n", p)
	}

	b.WriteString("## About\n\n")
	for _, p := range about.Paragraphs {
		fmt.Fprintf(&b, "%s\n\n", p)
	}
	for _, l := range about.QuickLinks {
		fmt.Fprintf(&b, "- [%s](%s)\n", oneLine(l.Label), l.Target)
	}

	return []byte(b.String())
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PreviewHTML renders the copy preview as HTML. Output is cached by content
// and renderer.
func PreviewHTML(mission content.Mission, about content.About, language content.Language) []byte {
	md := PreviewMarkdown(mission, about)
	hash := util.ContentHash(md)
	variant := config.MarkdownRenderer + ":" + string(language)

	if out, ok := cache.GetRendered(hash, variant); ok {
		renderLogger.Debug().Str("hash", util.ShortHash(hash, 12)).Msg("Cache hit for preview")
		return out
	}

	var out []byte
	switch config.MarkdownRenderer {
	case "mmark":
		out = renderMmark(md, language)
	default:
		out = renderClassic(md)
	}
	cache.SetRendered(hash, variant, out)
	return out
}

func renderClassic(md []byte) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank,
	}
	doc := parser.NewWithExtensions(
		parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoIntraEmphasis,
	).Parse(md)
	return markdown.Render(doc, md_html.NewRenderer(opts))
}

func renderMmark(md []byte, language content.Language) []byte {
	md = markdown.NormalizeNewlines(md)

	p := parser.NewWithExtensions(mparser.Extensions | parser.NoIntraEmphasis)
	init := mparser.NewInitial("")
	p.Opts = parser.Options{
		ParserHook:    mparser.Hook,
		ReadIncludeFn: init.ReadInclude,
		Flags:         parser.FlagsNone,
	}
	doc := markdown.Parse(md, p)

	if language == "" {
		language = content.DefaultLanguage
	}
	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New(string(language)),
	}

	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			return mhtmlOpts.RenderHook(w, node, entering)
		},
	}
	return markdown.Render(doc, md_html.NewRenderer(opts))
}

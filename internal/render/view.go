package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/console"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/theme"
)

var seasonNames = map[content.Theme]string{
	content.ThemeNormal: "Ordinary Time",
	content.ThemeAdvent: "Advent",
	content.ThemeEaster: "Easter",
}

// View writes the console screen. An unauthenticated operator only ever sees
// the login view.
func View(w io.Writer, v console.View, p theme.Palette) error {
	st := p.Styles()
	var b strings.Builder

	b.WriteString(st.Banner.Render(banner(v)))
	b.WriteString("\n\n")

	if v.Authenticated {
		editor(&b, v, st)
	} else {
		login(&b, v, st)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func banner(v console.View) string {
	season, ok := seasonNames[v.Theme]
	if !ok {
		season = seasonNames[content.ThemeNormal]
	}
	s := fmt.Sprintf("Home page · %s · %s", season, v.Language)
	if v.Loading {
		s += " · loading"
	}
	return s
}

func login(b *strings.Builder, v console.View, st theme.Styles) {
	b.WriteString(st.Title.Render("Admin login"))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("Log in to edit the mission, notices, theme and collage."))
	b.WriteString("\n")
	if v.Message != "" {
		b.WriteString(st.Error.Render(v.Message))
		b.WriteString("\n")
	}
}

func editor(b *strings.Builder, v console.View, st theme.Styles) {
	if v.Mission != nil {
		section(b, st, "Mission", v.MissionDirty, v.SavingCopy)
		var body strings.Builder
		body.WriteString(st.Heading.Render(v.Mission.Heading))
		if v.Mission.Subheading != "" {
			body.WriteString("\n" + st.Muted.Render(v.Mission.Subheading))
		}
		for _, p := range v.Mission.Body {
			body.WriteString("\n\n" + p)
		}
		b.WriteString(st.Box.Render(body.String()))
		b.WriteString("\n")
	}

	if v.About != nil {
		section(b, st, "About", v.AboutDirty, v.SavingCopy)
		b.WriteString(content.JoinParagraphs(v.About.Paragraphs))
		b.WriteString("\n")
		for _, l := range v.About.QuickLinks {
			fmt.Fprintf(b, "  %s %s\n", st.Badge.Render(l.Label), st.Muted.Render(l.Target))
		}
	}

	if v.Notices != nil {
		section(b, st, "Notices", false, v.SavingNotice)
		if len(v.Notices.Items) == 0 {
			b.WriteString(st.Muted.Render("No notices yet."))
			b.WriteString("\n")
		}
		for _, n := range v.Notices.Items {
			fmt.Fprintf(b, "  • %s: %s\n", st.Heading.Render(n.Title), n.Body)
		}
		if c := v.Notices.Compose; c.Title != "" || c.Body != "" {
			fmt.Fprintf(b, "  %s %s: %s\n", st.Muted.Render("draft"), c.Title, c.Body)
		}
	}

	section(b, st, "Theme", false, v.SavingTheme)
	for _, th := range content.Themes {
		mark := "( )"
		if th == v.Theme {
			mark = "(•)"
		}
		fmt.Fprintf(b, "  %s %s\n", mark, seasonNames[th])
	}

	section(b, st, "Collage", false, v.Uploading)
	fmt.Fprintf(b, "%s\n", st.Muted.Render(fmt.Sprintf("Showing %d of %d photos (up to %d)", len(v.Photos), v.PhotoCount, v.MaxPhotos)))
	for i, p := range v.Photos {
		alt := p.Alt
		if alt == "" {
			alt = p.Key()
		}
		fmt.Fprintf(b, "  %d. %s %s\n", i+1, alt, st.Muted.Render(p.URL))
	}
	for _, name := range v.Selection {
		fmt.Fprintf(b, "  %s %s\n", st.Badge.Render("uploading"), name)
	}

	if v.Message != "" {
		b.WriteString("\n")
		b.WriteString(st.Error.Render(v.Message))
		b.WriteString("\n")
	}
}

func section(b *strings.Builder, st theme.Styles, title string, dirty, busy bool) {
	b.WriteString("\n")
	b.WriteString(st.Title.Render(title))
	if dirty {
		b.WriteString(" " + st.Badge.Render("unsaved"))
	}
	if busy {
		b.WriteString(" " + st.Muted.Render("saving…"))
	}
	b.WriteString("\n")
}

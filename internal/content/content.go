// Package content defines the publishable home page content model shared by
// the console, the content service client and the renderers.
package content

// Language is a two-letter content language tag. Unsupported tags are
// forwarded to the content service as-is.
type Language string

const DefaultLanguage Language = "en"

type Mission struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Body       []string `json:"body"`
}

type QuickLink struct {
	Label  string `json:"label"`
	Target string `json:"href"`
}

type About struct {
	Paragraphs []string    `json:"paragraphs"`
	QuickLinks []QuickLink `json:"quickLinks"`
}

type NoticeID string

// Notice is a short announcement. The list order returned by the service is
// the display order.
type Notice struct {
	ID    NoticeID `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
}

// Snapshot is the authoritative, language-scoped view of the home page as last
// fetched from the content service. It is never mutated after decoding; the
// next fetch replaces it wholesale.
type Snapshot struct {
	Mission  *Mission `json:"mission,omitempty"`
	About    *About   `json:"about,omitempty"`
	Notices  []Notice `json:"notices"`
	Theme    Theme    `json:"liturgicalTheme"`
	Photos   []Photo  `json:"collagePhotos"`
	Language Language `json:"-"`
}

// Copy is the request body for saving mission and about together. Language
// travels as a query parameter, not in the body.
type Copy struct {
	Mission  Mission  `json:"mission"`
	About    About    `json:"about"`
	Language Language `json:"-"`
}

func (m Mission) Clone() Mission {
	m.Body = append([]string(nil), m.Body...)
	return m
}

func (a About) Clone() About {
	a.Paragraphs = append([]string(nil), a.Paragraphs...)
	a.QuickLinks = append([]QuickLink(nil), a.QuickLinks...)
	return a
}

func (m Mission) Equal(o Mission) bool {
	return m.Heading == o.Heading && m.Subheading == o.Subheading && equalStrings(m.Body, o.Body)
}

func (a About) Equal(o About) bool {
	if !equalStrings(a.Paragraphs, o.Paragraphs) || len(a.QuickLinks) != len(o.QuickLinks) {
		return false
	}
	for i := range a.QuickLinks {
		if a.QuickLinks[i] != o.QuickLinks[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Theme is the site-wide seasonal banner theme. Exactly one is active at a
// time, independent of language or operator.
type Theme string

const (
	ThemeNormal Theme = "normal"
	ThemeAdvent Theme = "advent"
	ThemeEaster Theme = "easter"
)

var Themes = []Theme{ThemeNormal, ThemeAdvent, ThemeEaster}

var ErrUnknownTheme = fmt.Errorf("unknown theme")

func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
	return t, nil
}

func (t Theme) Valid() bool {
	switch t {
	case ThemeNormal, ThemeAdvent, ThemeEaster:
		return true
	}
	return false
}

func (t Theme) String() string {
	return string(t)
}

// UnmarshalJSON maps missing or unrecognised values to ThemeNormal so a
// service-side typo never leaves the banner without a theme.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTheme(s)
	if err != nil {
		if s != "" {
			contentLogger.Warn().Str("theme", s).Msg("Unknown liturgical theme, using normal")
		}
		parsed = ThemeNormal
	}
	*t = parsed
	return nil
}

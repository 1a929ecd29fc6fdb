package content

// MaxCollagePhotos caps both the collage upload selection and the collage
// display, independently of how many photos the service holds.
const MaxCollagePhotos = 6

type Photo struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Key identifies a photo, falling back to its URL when the service did not
// assign an id.
func (p Photo) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.URL
}

// CapPhotos returns at most max leading items of photos. A non-positive max
// falls back to MaxCollagePhotos.
func CapPhotos[T any](items []T, max int) []T {
	if max <= 0 {
		max = MaxCollagePhotos
	}
	if len(items) <= max {
		return items
	}
	return items[:max]
}

package console

// Group is a unit of publishing with its own in-flight flag. Mission and
// about are saved together as GroupCopy.
type Group string

const (
	GroupCopy    Group = "copy"
	GroupNotices Group = "notices"
	GroupTheme   Group = "theme"
	GroupCollage Group = "collage"
)

// inFlight counts outstanding operations per group. Only accessed on the loop.
type inFlight struct {
	counts map[Group]int
}

func newInFlight() *inFlight {
	return &inFlight{counts: make(map[Group]int)}
}

// begin marks g in flight. With exclusive set it refuses when g is already in
// flight.
func (f *inFlight) begin(g Group, exclusive bool) bool {
	if exclusive && f.counts[g] > 0 {
		return false
	}
	f.counts[g]++
	return true
}

func (f *inFlight) end(g Group) {
	if f.counts[g] > 0 {
		f.counts[g]--
	}
}

func (f *inFlight) active(g Group) bool {
	return f.counts[g] > 0
}

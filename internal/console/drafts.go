package console

import (
	"github.com/debemdeboas/homeadmin/internal/content"
)

// SubResource names an independently editable part of the home page.
type SubResource string

const (
	SubMission SubResource = "mission"
	SubAbout   SubResource = "about"
	SubNotices SubResource = "notices"
	SubTheme   SubResource = "theme"
)

// Patch is a shallow update for one sub-resource. Nil fields are left
// untouched.
type Patch interface {
	SubResource() SubResource
	apply(s *DraftStore)
}

type MissionPatch struct {
	Heading    *string
	Subheading *string
	// Body replaces the paragraphs when non-nil. BodyText, when set, is split
	// on blank lines and takes precedence over Body.
	Body     []string
	BodyText *string
}

func (MissionPatch) SubResource() SubResource { return SubMission }

func (p MissionPatch) apply(s *DraftStore) {
	if p.Heading != nil {
		s.mission.Heading = *p.Heading
	}
	if p.Subheading != nil {
		s.mission.Subheading = *p.Subheading
	}
	if p.Body != nil {
		s.mission.Body = append([]string(nil), p.Body...)
	}
	if p.BodyText != nil {
		s.mission.Body = content.SplitParagraphs(*p.BodyText)
	}
}

// AboutPatch edits the about paragraphs. Quick links are carried through
// unchanged.
type AboutPatch struct {
	Paragraphs []string
	Text       *string
}

func (AboutPatch) SubResource() SubResource { return SubAbout }

func (p AboutPatch) apply(s *DraftStore) {
	if p.Paragraphs != nil {
		s.about.Paragraphs = append([]string(nil), p.Paragraphs...)
	}
	if p.Text != nil {
		s.about.Paragraphs = content.SplitParagraphs(*p.Text)
	}
}

// NoticePatch edits the notice compose fields. The notice list itself is
// append-only through PublishNotice.
type NoticePatch struct {
	Title *string
	Body  *string
}

func (NoticePatch) SubResource() SubResource { return SubNotices }

func (p NoticePatch) apply(s *DraftStore) {
	if p.Title != nil {
		s.compose.Title = *p.Title
	}
	if p.Body != nil {
		s.compose.Body = *p.Body
	}
}

// NoticeCompose holds the not-yet-published notice fields.
type NoticeCompose struct {
	Title string
	Body  string
}

// NoticesDraft is the notice list as last seeded plus the compose fields.
type NoticesDraft struct {
	Items   []content.Notice
	Compose NoticeCompose
}

// DraftStore holds the operator's editable copies. It is not safe for
// concurrent use; the Console drives it from its event loop.
type DraftStore struct {
	policy SeedPolicy
	active bool
	seeded bool

	mission     content.Mission
	missionBase content.Mission
	about       content.About
	aboutBase   content.About
	notices     []content.Notice
	compose     NoticeCompose
	theme       content.Theme
}

func NewDraftStore(policy SeedPolicy) *DraftStore {
	return &DraftStore{policy: policy}
}

func (s *DraftStore) Policy() SeedPolicy {
	return s.policy
}

// Activate allows seeding. Drafts only exist for an authenticated operator.
func (s *DraftStore) Activate() {
	s.active = true
}

// Deactivate destroys every draft, including compose fields.
func (s *DraftStore) Deactivate() {
	*s = DraftStore{policy: s.policy}
}

func (s *DraftStore) Active() bool {
	return s.active
}

// Exists reports whether drafts have been seeded since activation.
func (s *DraftStore) Exists() bool {
	return s.active && s.seeded
}

// Seed replaces the drafts from snap. A nil snapshot, or one without mission
// or about copy, seeds the built-in defaults for the missing parts. Seed is a
// no-op returning false while the store is inactive.
func (s *DraftStore) Seed(snap *content.Snapshot) bool {
	if !s.active {
		return false
	}

	mission := content.DefaultMission()
	about := content.DefaultAbout()
	var notices []content.Notice
	theme := s.theme
	if snap != nil {
		if snap.Mission != nil {
			mission = snap.Mission.Clone()
		}
		if snap.About != nil {
			about = snap.About.Clone()
		}
		notices = append([]content.Notice(nil), snap.Notices...)
		theme = snap.Theme
	}
	if !theme.Valid() {
		theme = content.ThemeNormal
	}

	preserve := s.policy == PreserveUnsavedOnSeed && s.seeded
	if !(preserve && s.Dirty(SubMission)) {
		s.mission = mission.Clone()
	}
	s.missionBase = mission
	if !(preserve && s.Dirty(SubAbout)) {
		s.about = about.Clone()
	}
	s.aboutBase = about

	s.notices = notices
	s.theme = theme
	s.seeded = true
	return true
}

// Edit shallow-merges patch into the sub draft.
func (s *DraftStore) Edit(sub SubResource, patch Patch) error {
	if !s.Exists() {
		return ErrNoDraft
	}
	if sub == SubTheme {
		return ErrReadOnly
	}
	if patch == nil || patch.SubResource() != sub {
		return ErrPatchMismatch
	}
	patch.apply(s)
	return nil
}

// Current returns a copy of the sub draft: content.Mission, content.About,
// NoticesDraft or content.Theme.
func (s *DraftStore) Current(sub SubResource) (any, bool) {
	if !s.Exists() {
		return nil, false
	}
	switch sub {
	case SubMission:
		return s.mission.Clone(), true
	case SubAbout:
		return s.about.Clone(), true
	case SubNotices:
		return NoticesDraft{
			Items:   append([]content.Notice(nil), s.notices...),
			Compose: s.compose,
		}, true
	case SubTheme:
		return s.theme, true
	}
	return nil, false
}

func (s *DraftStore) Mission() (content.Mission, bool) {
	if !s.Exists() {
		return content.Mission{}, false
	}
	return s.mission.Clone(), true
}

func (s *DraftStore) About() (content.About, bool) {
	if !s.Exists() {
		return content.About{}, false
	}
	return s.about.Clone(), true
}

func (s *DraftStore) Compose() (NoticeCompose, bool) {
	if !s.Exists() {
		return NoticeCompose{}, false
	}
	return s.compose, true
}

func (s *DraftStore) Theme() (content.Theme, bool) {
	if !s.Exists() {
		return "", false
	}
	return s.theme, true
}

// Dirty reports whether the sub draft diverges from its last seeded value.
// Notices are dirty while the compose fields hold text.
func (s *DraftStore) Dirty(sub SubResource) bool {
	if !s.Exists() {
		return false
	}
	switch sub {
	case SubMission:
		return !s.mission.Equal(s.missionBase)
	case SubAbout:
		return !s.about.Equal(s.aboutBase)
	case SubNotices:
		return s.compose != NoticeCompose{}
	}
	return false
}

func (s *DraftStore) clearCompose() {
	s.compose = NoticeCompose{}
}

// setTheme records an optimistic theme selection.
func (s *DraftStore) setTheme(theme content.Theme) {
	if s.Exists() {
		s.theme = theme
	}
}

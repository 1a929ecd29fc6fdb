package console

import (
	"github.com/debemdeboas/homeadmin/internal/content"
)

// View is a consistent read of everything the presentation layer needs.
type View struct {
	Authenticated bool
	Language      content.Language
	Loading       bool
	Theme         content.Theme

	// Drafts; nil when no draft exists.
	Mission *content.Mission
	About   *content.About
	Notices *NoticesDraft

	MissionDirty bool
	AboutDirty   bool

	// Photos are capped to the collage display limit.
	Photos      []content.Photo
	PhotoCount  int
	MaxPhotos   int
	Selection   []string
	HasSnapshot bool

	SavingCopy   bool
	SavingNotice bool
	SavingTheme  bool
	Uploading    bool

	Message string
}

func (c *Console) View() View {
	var v View
	c.loop.run(func() {
		v = View{
			Authenticated: c.gate.authenticated,
			Language:      c.language,
			Loading:       c.fetcher.loading > 0,
			Theme:         c.theme.Current(),
			MaxPhotos:     c.maxPhotos,
			Selection:     c.uploader.selectionLocked(),
			SavingCopy:    c.inflight.active(GroupCopy),
			SavingNotice:  c.inflight.active(GroupNotices),
			SavingTheme:   c.inflight.active(GroupTheme),
			Uploading:     c.inflight.active(GroupCollage),
			Message:       c.message,
		}

		if snap := c.fetcher.current; snap != nil {
			v.HasSnapshot = true
			v.PhotoCount = len(snap.Photos)
			v.Photos = append([]content.Photo(nil), content.CapPhotos(snap.Photos, c.maxPhotos)...)
		}

		if m, ok := c.drafts.Mission(); ok {
			v.Mission = &m
		}
		if a, ok := c.drafts.About(); ok {
			v.About = &a
		}
		v.MissionDirty = c.drafts.Dirty(SubMission)
		v.AboutDirty = c.drafts.Dirty(SubAbout)
		if n, ok := c.drafts.Current(SubNotices); ok {
			nd := n.(NoticesDraft)
			v.Notices = &nd
		}
	})
	return v
}

package devserver

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

type storedPhoto struct {
	content.Photo
	mime string
	data []byte
}

// Store holds the published home page. Copy is kept per language; notices,
// theme and photos are site-wide.
type Store struct {
	mu      sync.RWMutex
	copies  map[content.Language]content.Copy
	notices []content.Notice
	theme   content.Theme
	photos  []storedPhoto
}

func NewStore() *Store {
	return &Store{
		copies: make(map[content.Language]content.Copy),
		theme:  content.ThemeNormal,
	}
}

// Home returns the snapshot for lang. Mission and about are absent until
// copy has been saved for that language.
func (s *Store) Home(lang content.Language) content.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := content.Snapshot{
		Notices:  append([]content.Notice{}, s.notices...),
		Theme:    s.theme,
		Photos:   make([]content.Photo, 0, len(s.photos)),
		Language: lang,
	}
	if c, ok := s.copies[lang]; ok {
		mission, about := c.Mission.Clone(), c.About.Clone()
		snap.Mission, snap.About = &mission, &about
	}
	for _, p := range s.photos {
		snap.Photos = append(snap.Photos, p.Photo)
	}
	return snap
}

func (s *Store) SaveCopy(lang content.Language, c content.Copy) {
	c.Mission = c.Mission.Clone()
	c.About = c.About.Clone()
	c.Language = lang

	s.mu.Lock()
	s.copies[lang] = c
	s.mu.Unlock()
}

// AddNotice puts a new notice at the top of the list and returns the list.
func (s *Store) AddNotice(title, body string) []content.Notice {
	n := content.Notice{ID: content.NoticeID(uuid.NewString()), Title: title, Body: body}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append([]content.Notice{n}, s.notices...)
	return append([]content.Notice{}, s.notices...)
}

func (s *Store) SetTheme(t content.Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

func (s *Store) Theme() content.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// AddPhoto stores an uploaded image. Newer photos are listed first.
func (s *Store) AddPhoto(filename, mime string, data []byte) content.Photo {
	id := uuid.NewString()
	base := filepath.Base(filename)
	p := storedPhoto{
		Photo: content.Photo{
			ID:  id,
			URL: config.CollagePhotoPath + id,
			Alt: strings.TrimSuffix(base, filepath.Ext(base)),
		},
		mime: mime,
		data: data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append([]storedPhoto{p}, s.photos...)
	return p.Photo
}

// Photo returns the bytes and content type of a stored photo.
func (s *Store) Photo(id string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.photos {
		if p.ID == id {
			return p.data, p.mime, true
		}
	}
	return nil, "", false
}

func (s *Store) PhotoCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

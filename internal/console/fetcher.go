package console

import (
	"context"

	"github.com/debemdeboas/homeadmin/internal/cache"
	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/util"
)

// Fetcher loads the authoritative snapshot. Overlapping fetches are not
// deduplicated; Ordering decides which response ends up applied.
type Fetcher struct {
	loop     *eventLoop
	svc      Service
	ordering Ordering

	seq     uint64
	applied uint64
	epoch   uint64
	loading int

	current  *content.Snapshot
	lastGood *cache.Cache[content.Language, *content.Snapshot]

	listeners []func(*content.Snapshot)
}

func newFetcher(loop *eventLoop, svc Service, ordering Ordering) *Fetcher {
	return &Fetcher{
		loop:     loop,
		svc:      svc,
		ordering: ordering,
		lastGood: cache.NewCache[content.Language, *content.Snapshot](),
	}
}

// onSnapshot registers fn to run on the loop whenever a snapshot is applied.
func (f *Fetcher) onSnapshot(fn func(*content.Snapshot)) {
	f.listeners = append(f.listeners, fn)
}

// Fetch loads the snapshot for lang and applies it unless the response has
// been superseded. On failure the previous snapshot stays current and a
// *FetchError is returned.
func (f *Fetcher) Fetch(ctx context.Context, lang content.Language) (*content.Snapshot, error) {
	var seq, epoch uint64
	f.loop.run(func() {
		f.seq++
		seq, epoch = f.seq, f.epoch
		f.loading++
	})

	snap, err := f.svc.Home(ctx, lang)

	var applied bool
	f.loop.run(func() {
		f.loading--
		if epoch != f.epoch {
			return
		}
		if err != nil {
			return
		}
		if f.ordering == LatestRequestWins && seq < f.applied {
			return
		}
		f.applyLocked(snap, lang, seq)
		applied = true
	})

	if err != nil {
		consoleLogger.Error().Err(err).Str("language", string(lang)).Msg("Failed to fetch content snapshot")
		return nil, &FetchError{Language: lang, Err: err}
	}
	if !applied {
		consoleLogger.Debug().
			Uint64("seq", seq).
			Str("language", string(lang)).
			Msg("Discarding superseded snapshot")
		return nil, ErrDiscarded
	}
	return snap, nil
}

func (f *Fetcher) applyLocked(snap *content.Snapshot, lang content.Language, seq uint64) {
	if snap.Language == "" {
		snap.Language = lang
	}
	if !snap.Theme.Valid() {
		snap.Theme = content.ThemeNormal
	}
	if seq > f.applied {
		f.applied = seq
	}
	f.current = snap
	f.lastGood.Set(lang, snap)

	consoleLogger.Debug().
		Uint64("seq", seq).
		Str("language", string(lang)).
		Str("theme", string(snap.Theme)).
		Int("notices", len(snap.Notices)).
		Int("photos", len(snap.Photos)).
		Msg("Snapshot applied")

	for _, fn := range f.listeners {
		fn(snap)
	}
}

// restoreLocked installs a cached snapshot when nothing has been fetched yet.
func (f *Fetcher) restoreLocked(snap *content.Snapshot) bool {
	if f.current != nil || snap == nil {
		return false
	}
	f.current = snap
	f.lastGood.Set(snap.Language, snap)
	for _, fn := range f.listeners {
		fn(snap)
	}
	return true
}

// switchLocked makes every in-flight fetch irrelevant and, when a last-good
// snapshot for lang is known, applies it immediately.
func (f *Fetcher) switchLocked(lang content.Language) {
	f.epoch++
	if snap, ok := f.lastGood.Get(lang); ok {
		f.current = snap
		for _, fn := range f.listeners {
			fn(snap)
		}
	}
}

func (f *Fetcher) Current() *content.Snapshot {
	var snap *content.Snapshot
	f.loop.run(func() { snap = f.current })
	return snap
}

// Fingerprint identifies the current snapshot content for logs and caches.
func Fingerprint(snap *content.Snapshot) string {
	if snap == nil {
		return ""
	}
	return util.JSONHash(snap)
}

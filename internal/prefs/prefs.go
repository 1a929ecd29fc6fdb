// Package prefs is the best-effort local cache of session, theme, language
// and last-good snapshot. Every read tolerates absent or corrupt values and
// every write failure is only logged.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/content"
	"github.com/debemdeboas/homeadmin/internal/db"
	"github.com/debemdeboas/homeadmin/internal/util/compression"
)

var prefsLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	prefsLogger = l
}

const (
	keyAuthenticated  = "authenticated"
	keyTheme          = "theme"
	keyLanguage       = "language"
	keySnapshotPrefix = "snapshot:"
)

const opTimeout = 2 * time.Second

type Store struct {
	db    db.Db
	codec compression.Compressor
}

// Open initializes the database at path and returns a store compressing
// snapshot blobs with the named codec.
func Open(ctx context.Context, path, codec string) (*Store, error) {
	c, err := compression.ForName(codec)
	if err != nil {
		return nil, err
	}
	d := db.NewSQLite(path)
	if err := d.InitDb(ctx); err != nil {
		return nil, err
	}
	return New(d, c), nil
}

func New(d db.Db, codec compression.Compressor) *Store {
	return &Store{db: d, codec: codec}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			prefsLogger.Warn().Err(err).Str("key", key).Msg("Failed to read preference")
		}
		return nil, false
	}
	return value, true
}

func (s *Store) set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx, `
INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		prefsLogger.Warn().Err(err).Str("key", key).Msg("Failed to store preference")
	}
}

func (s *Store) Authenticated() (bool, bool) {
	v, ok := s.get(keyAuthenticated)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(string(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func (s *Store) SetAuthenticated(v bool) {
	s.set(keyAuthenticated, []byte(strconv.FormatBool(v)))
}

func (s *Store) Theme() (content.Theme, bool) {
	v, ok := s.get(keyTheme)
	if !ok {
		return "", false
	}
	th, err := content.ParseTheme(string(v))
	if err != nil {
		return "", false
	}
	return th, true
}

func (s *Store) SetTheme(theme content.Theme) {
	s.set(keyTheme, []byte(theme))
}

func (s *Store) Language() (content.Language, bool) {
	v, ok := s.get(keyLanguage)
	if !ok || len(v) == 0 {
		return "", false
	}
	return content.Language(v), true
}

func (s *Store) SetLanguage(lang content.Language) {
	s.set(keyLanguage, []byte(lang))
}

// Snapshot returns the last snapshot stored for lang.
func (s *Store) Snapshot(lang content.Language) (*content.Snapshot, bool) {
	blob, ok := s.get(keySnapshotPrefix + string(lang))
	if !ok {
		return nil, false
	}

	data, err := s.codec.Decompress(blob)
	if err != nil {
		prefsLogger.Warn().Err(err).Str("language", string(lang)).Msg("Discarding unreadable cached snapshot")
		return nil, false
	}

	var snap content.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		prefsLogger.Warn().Err(err).Str("language", string(lang)).Msg("Discarding malformed cached snapshot")
		return nil, false
	}
	snap.Language = lang
	return &snap, true
}

func (s *Store) SetSnapshot(snap *content.Snapshot) {
	if snap == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		prefsLogger.Warn().Err(err).Msg("Failed to encode snapshot")
		return
	}
	blob, err := s.codec.Compress(data)
	if err != nil {
		prefsLogger.Warn().Err(err).Msg("Failed to compress snapshot")
		return
	}
	s.set(keySnapshotPrefix+string(snap.Language), blob)
}

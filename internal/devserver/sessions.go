package devserver

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/homeadmin/internal/cache"
)

// Sessions issues opaque cookie tokens that expire after ttl.
type Sessions struct {
	ttl    time.Duration
	now    func() time.Time
	tokens *cache.Cache[string, time.Time]
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		tokens: cache.NewCache[string, time.Time](),
	}
}

func (s *Sessions) Create() string {
	token := uuid.NewString()
	s.tokens.Set(token, s.now().Add(s.ttl))
	return token
}

// Valid reports whether token names a live session. Expired tokens are
// dropped on first sight.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	expires, ok := s.tokens.Get(token)
	if !ok {
		return false
	}
	if !s.now().Before(expires) {
		s.tokens.Delete(token)
		return false
	}
	return true
}

func (s *Sessions) Revoke(token string) {
	s.tokens.Delete(token)
}

// Expire ends every session.
func (s *Sessions) Expire() {
	s.tokens.Clear()
}

func credentialsMatch(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yorikya/note-speaker/pkg/assistant"
)

// SessionRepository keeps live assistant sessions in memory. A session
// expires after ttl without access.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := 10 * time.Minute
	if ttl < cleanup {
		cleanup = ttl
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// OnEvicted registers f for sessions leaving the repository, whether expired
// or deleted. f runs after the entry is gone, so Count already excludes it.
func (r *SessionRepository) OnEvicted(f func(sessionID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		f(key)
	})
}

func (r *SessionRepository) Save(session *assistant.Assistant) {
	r.cache.Set(session.ID(), session, cache.DefaultExpiration)
}

// Get returns a session and extends its lifetime
func (r *SessionRepository) Get(sessionID string) (*assistant.Assistant, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*assistant.Assistant)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

// GetOrCreate returns the session for sessionID, creating it with create
// when missing. created reports whether create was called.
func (r *SessionRepository) GetOrCreate(sessionID string, create func(id string) *assistant.Assistant) (session *assistant.Assistant, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.Get(sessionID); ok {
		return s, false
	}
	s := create(sessionID)
	r.Save(s)
	return s, true
}

func (r *SessionRepository) Delete(sessionID string) bool {
	if _, found := r.cache.Get(sessionID); !found {
		return false
	}
	r.cache.Delete(sessionID)
	return true
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

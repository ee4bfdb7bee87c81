package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/KaramelBytes/storelens/internal/session"
)

const (
	defaultMaxSessions = 100
	defaultSessionTTL  = time.Hour
)

// entry serializes access to one session; session.Session is not safe for
// concurrent use.
type entry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastUsed atomic.Int64 // unix nanos
}

// store keeps sessions in memory. Sessions idle longer than ttl expire, and
// adding one beyond max evicts the least recently used. A zero max or ttl
// disables that limit.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	max      int
	ttl      time.Duration
	now      func() time.Time
}

func newStore(maxSessions int, ttl time.Duration) *store {
	return &store{sessions: make(map[string]*entry), max: maxSessions, ttl: ttl, now: time.Now}
}

func (st *store) expired(e *entry, now time.Time) bool {
	return st.ttl > 0 && now.Sub(time.Unix(0, e.lastUsed.Load())) > st.ttl
}

// put adds s and returns the ids evicted to make room.
func (st *store) put(s *session.Session) []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	var evicted []string
	for id, e := range st.sessions {
		if st.expired(e, now) {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	for st.max > 0 && len(st.sessions) >= st.max {
		oldest, at := "", int64(0)
		for id, e := range st.sessions {
			if used := e.lastUsed.Load(); oldest == "" || used < at || used == at && id < oldest {
				oldest, at = id, used
			}
		}
		delete(st.sessions, oldest)
		evicted = append(evicted, oldest)
	}
	e := &entry{sess: s}
	e.lastUsed.Store(now.UnixNano())
	st.sessions[s.ID] = e
	return evicted
}

// get returns a live session and marks it used.
func (st *store) get(id string) (*entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(e, now) {
		return nil, false
	}
	e.lastUsed.Store(now.UnixNano())
	return e, true
}

func (st *store) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *store) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

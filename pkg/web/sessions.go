package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/cricshot/pkg/session"
)

const (
	sessionCookie = "cricshot_session"
	sessionIdle   = time.Hour
)

// flash holds at most one pending failure notice for a visitor.
type flash struct {
	mu  sync.Mutex
	msg string
}

func (f *flash) Notify(message string) {
	f.mu.Lock()
	f.msg = message
	f.mu.Unlock()
}

// Take returns the pending notice and clears it.
func (f *flash) Take() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.msg
	f.msg = ""
	return msg
}

type visitor struct {
	id         string
	controller *session.Controller
	notices    *flash
	lastSeen   time.Time
	sockets    int
}

// sessionStore keeps one controller per browser in memory.
type sessionStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	create   func(session.Notifier) *session.Controller
	idle     time.Duration
	now      func() time.Time
}

func newSessionStore(create func(session.Notifier) *session.Controller) *sessionStore {
	return &sessionStore{
		visitors: make(map[string]*visitor),
		create:   create,
		idle:     sessionIdle,
		now:      time.Now,
	}
}

// get returns the caller's session, creating it and setting the cookie when
// the request carries no known id.
func (s *sessionStore) get(w http.ResponseWriter, r *http.Request) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if c, err := r.Cookie(sessionCookie); err == nil {
		if v, ok := s.visitors[c.Value]; ok {
			v.lastSeen = now
			return v
		}
	}

	notices := &flash{}
	v := &visitor{
		id:         uuid.New().String(),
		controller: s.create(notices),
		notices:    notices,
		lastSeen:   now,
	}
	s.visitors[v.id] = v
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    v.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return v
}

// attach finds an existing session for a WebSocket without creating one.
// The session is not evicted until release is called.
func (s *sessionStore) attach(r *http.Request) (*visitor, func(), bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[c.Value]
	if !ok {
		return nil, nil, false
	}
	v.lastSeen = s.now()
	v.sockets++

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			v.sockets--
			v.lastSeen = s.now()
		})
	}
	return v, release, true
}

// evictLocked drops visitors idle for longer than s.idle. A visitor with an
// open socket is never idle.
func (s *sessionStore) evictLocked(now time.Time) {
	for id, v := range s.visitors {
		if v.sockets == 0 && now.Sub(v.lastSeen) > s.idle {
			delete(s.visitors, id)
		}
	}
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

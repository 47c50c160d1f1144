// Package session keeps per-browser state on the server: the list view state
// and pending flash notifications.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Gen1023/financial-products/internal/listing"
)

const CookieName = "sid"

// Session is one browser's state. Hold Lock while touching List.
type Session struct {
	ID string

	mu   sync.Mutex
	List *listing.State
	seen time.Time

	fmu     sync.Mutex
	flashes []string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Notify queues a message for the next rendered page.
func (s *Session) Notify(_ context.Context, msg string) {
	s.fmu.Lock()
	s.flashes = append(s.flashes, msg)
	s.fmu.Unlock()
}

// Flashes drains the queued messages.
func (s *Session) Flashes() []string {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// Store is an in-memory session table.
type Store struct {
	mu     sync.Mutex
	byID   map[string]*Session
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

type Option func(*Store)

// WithMaxAge expires sessions idle for longer than d. Zero keeps them forever.
func WithMaxAge(d time.Duration) Option { return func(s *Store) { s.maxAge = d } }

// WithSecureCookie marks the sid cookie Secure.
func WithSecureCookie(on bool) Option { return func(s *Store) { s.secure = on } }

func NewStore(opts ...Option) *Store {
	s := &Store{byID: map[string]*Session{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Acquire returns the session named by the sid cookie, minting a new one and
// setting the cookie when it is missing or unknown.
func (st *Store) Acquire(c *fiber.Ctx) *Session {
	id := c.Cookies(CookieName)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.expire()

	if s, ok := st.byID[id]; ok && id != "" {
		s.seen = st.now()
		return s
	}

	s := &Session{ID: uuid.NewString(), List: listing.NewState(), seen: st.now()}
	st.byID[s.ID] = s
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HTTPOnly: true,
		Secure:   st.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return s
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byID)
}

func (st *Store) expire() {
	if st.maxAge <= 0 {
		return
	}
	cutoff := st.now().Add(-st.maxAge)
	for id, s := range st.byID {
		if s.seen.Before(cutoff) {
			delete(st.byID, id)
		}
	}
}

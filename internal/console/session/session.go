// Package session holds the console's in-memory authentication state: the
// current bearer credential and the last-known user profile.
//
// The Session is a process-wide singleton created once at startup. It seeds
// itself synchronously from the credential store and never contacts the
// backend on its own; a stored session therefore survives a restart even
// when the backend is momentarily unreachable.
//
// All mutation funnels through Establish and Clear. Everything else in the
// application holds the Session read-only: the request authorizer peeks the
// token, the route authorizer peeks the user, views subscribe for change
// notifications.
package session

import (
	"context"
	"sync"

	"logdeck/internal/console/models"
	"logdeck/internal/logging"
)

// Store is the durable storage the session transitions own. Satisfied by
// *credstore.Store.
type Store interface {
	SaveSession(ctx context.Context, token string, user *models.User) error
	SetUser(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
	Credential(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Token string
	User  *models.User
}

// Authenticated reports whether a credential is present. The user profile
// may still be nil while a profile refresh is in flight.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// Listener receives a Snapshot after every session transition.
type Listener func(Snapshot)

// Session is the observable identity state container.
type Session struct {
	store Store
	log   logging.Logger

	mu        sync.Mutex
	token     string
	user      *models.User
	gen       uint64
	listeners map[int]Listener
	nextID    int

	// onClear signals navigation back to the login entry point. Set once
	// during wiring, before any transition can run.
	onClear func()
}

// New creates the Session, seeded synchronously from the store. Storage
// errors degrade to an empty session; they never block startup.
func New(store Store, log logging.Logger) *Session {
	s := &Session{
		store:     store,
		log:       log,
		listeners: make(map[int]Listener),
	}

	ctx := context.Background()
	token, err := store.Credential(ctx)
	if err != nil {
		log.Warn(ctx, "failed to load stored credential, starting unauthenticated", "error", err)
		return s
	}
	user, err := store.User(ctx)
	if err != nil {
		log.Warn(ctx, "failed to load stored profile", "error", err)
		user = nil
	}

	s.token = token
	s.user = user
	return s
}

// SetClearHook registers the navigation signal fired after every Clear.
func (s *Session) SetClearHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = fn
}

// Establish records a successful login or registration: the credential and
// profile are persisted first, then the in-memory state flips, then
// observers are notified. The ordering guarantees a restart immediately
// after the flip never observes an authenticated state with no stored
// credential.
func (s *Session) Establish(ctx context.Context, token string, user *models.User) {
	if err := s.store.SaveSession(ctx, token, user); err != nil {
		// The user did log in; an unwritable local store only means the
		// session will not survive a restart.
		s.log.Error(ctx, "failed to persist session", "error", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.gen++
	s.mu.Unlock()

	s.notify()
}

// Clear tears the session down: storage is cleared, in-memory identity is
// reset, observers are notified, and the navigation hook redirects to the
// login entry point. Clearing an already empty session repeats those steps
// with no further effect.
func (s *Session) Clear(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear stored session", "error", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.gen++
	hook := s.onClear
	s.mu.Unlock()

	s.notify()

	if hook != nil {
		hook()
	}
}

// UpdateUser applies a profile refresh to the user half of the session, but
// only when gen still identifies the session that initiated the fetch. A
// stale result (logout or re-login happened mid-flight) is discarded and
// false is returned.
func (s *Session) UpdateUser(ctx context.Context, gen uint64, user *models.User) bool {
	s.mu.Lock()
	if s.gen != gen || s.token == "" {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale profile refresh", "generation", gen)
		return false
	}
	s.user = user
	s.mu.Unlock()

	if err := s.store.SetUser(ctx, user); err != nil {
		s.log.Error(ctx, "failed to persist refreshed profile", "error", err)
	}

	s.notify()
	return true
}

// Current returns a synchronous snapshot for code paths that cannot
// subscribe, such as route checks and the request pipeline.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Token: s.token, User: s.user}
}

// Token peeks the current credential ("" when unauthenticated).
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User peeks the current profile (nil while absent or still loading).
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a credential is present.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Generation returns the current transition counter. Callers that start an
// asynchronous fetch capture it and pass it back to UpdateUser.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Subscribe registers fn to run after every transition. The returned cancel
// function removes the subscription.
func (s *Session) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snapshot := Snapshot{Token: s.token, User: s.user}
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

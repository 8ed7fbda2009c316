// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovoronina/healthdiary/internal/db"
	"github.com/ovoronina/healthdiary/internal/model"
	"github.com/ovoronina/healthdiary/internal/rules"
)

// Sentinel errors surfaced to the presentation layer, which maps them to
// localized messages.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// DefaultSessionTTL is how long a "remember me" session stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Store is the subset of the database layer the session manager needs.
// *db.Handle's Store satisfies it.
type Store interface {
	GetUserByEmail(email string) (*model.User, error)
	IsEmailTaken(email string) (bool, error)
	AddUser(email, passwordHash, name string, isAdmin bool) (int64, error)
	SaveSession(userID int64, deviceID, token string, expiresAt time.Time) error
	GetSessionByDevice(deviceID string) (*model.SessionUser, error)
	DeleteSessionByDevice(deviceID string, userID int64) error
}

// DeviceProvider supplies the stable device identifier used as the session
// dedup key.
type DeviceProvider interface {
	DeviceID() (string, error)
}

// State is the session state: logged out, guest, or authenticated.
type State int

const (
	StateLoggedOut State = iota
	StateGuest
	StateAuthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "logged out"
	}
}

// NewSessionToken returns a fresh opaque session token.
func NewSessionToken() string {
	return uuid.NewString()
}

// Manager drives the login/guest/logout state machine. All state lives
// behind a mutex so the manager is safe to share between goroutines.
type Manager struct {
	mu      sync.Mutex
	store   Store
	device  DeviceProvider
	ttl     time.Duration
	now     func() time.Time
	state   State
	user    *model.SessionUser
	guestID string
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager in the LoggedOut state.
func NewManager(store Store, device DeviceProvider, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		device: device,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
		state:  StateLoggedOut,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *model.SessionUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// ForceLocal reports whether storage must be forced to the local backend.
// True exactly while a guest session is active.
func (m *Manager) ForceLocal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateGuest
}

// DeviceID returns the effective device identifier: the generated guest ID
// during a guest session, the stable device ID otherwise.
func (m *Manager) DeviceID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceIDLocked()
}

func (m *Manager) deviceIDLocked() (string, error) {
	if m.state == StateGuest && m.guestID != "" {
		return m.guestID, nil
	}
	return m.device.DeviceID()
}

// TryAutoLogin looks up a non-expired session for the current device and
// promotes LoggedOut to Authenticated when one exists. An absent or expired
// session is "not logged in", not an error.
func (m *Manager) TryAutoLogin() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateLoggedOut {
		return m.state == StateAuthenticated, nil
	}
	deviceID, err := m.device.DeviceID()
	if err != nil {
		return false, err
	}
	su, err := m.store.GetSessionByDevice(deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	m.state = StateAuthenticated
	m.user = su
	return true, nil
}

// Login verifies credentials and moves to Authenticated. With remember set,
// a session row for the current device is persisted, replacing any earlier
// session the device held.
func (m *Manager) Login(email, password string, remember bool) (*model.SessionUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	addr, err := rules.Email(email)
	if err != nil {
		return nil, err
	}
	u, err := m.store.GetUserByEmail(addr)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	su := &model.SessionUser{UserID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
	m.state = StateAuthenticated
	m.user = su
	m.guestID = ""

	if remember {
		if err := m.persistSessionLocked(); err != nil {
			return nil, err
		}
	}
	return su, nil
}

// Register validates the input, creates the user and logs it in. The email
// is pre-checked for uniqueness; the store's duplicate error is still
// mapped, in case of a concurrent registration.
func (m *Manager) Register(email, password, confirm, name string, remember bool) (*model.SessionUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	addr, err := rules.Email(email)
	if err != nil {
		return nil, err
	}
	displayName, err := rules.Name(name)
	if err != nil {
		return nil, err
	}
	if _, err := rules.Password(password, &confirm); err != nil {
		return nil, err
	}

	taken, err := m.store.IsEmailTaken(addr)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := m.store.AddUser(addr, hash, displayName, false)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	su := &model.SessionUser{UserID: id, Email: addr, Name: displayName}
	m.state = StateAuthenticated
	m.user = su
	m.guestID = ""

	if remember {
		if err := m.persistSessionLocked(); err != nil {
			return nil, err
		}
	}
	return su, nil
}

func (m *Manager) persistSessionLocked() error {
	deviceID, err := m.deviceIDLocked()
	if err != nil {
		return err
	}
	expires := m.now().Add(m.ttl)
	return m.store.SaveSession(m.user.UserID, deviceID, NewSessionToken(), expires)
}

// EnterGuest starts a guest session. Guest sessions force local storage and
// never persist a session row; the returned guest device ID scopes any
// local data written during the session.
func (m *Manager) EnterGuest() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateGuest
	m.user = nil
	m.guestID = fmt.Sprintf("guest_%s", uuid.NewString()[:8])
	return m.guestID
}

// Logout leaves the current session. For an authenticated session the
// device's session row is deleted; for a guest session the forced-local
// mode is simply lifted.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateAuthenticated:
		deviceID, err := m.device.DeviceID()
		if err != nil {
			return err
		}
		if err := m.store.DeleteSessionByDevice(deviceID, m.user.UserID); err != nil {
			return err
		}
	case StateGuest:
		// No session row exists for guests.
	default:
		return ErrNotLoggedIn
	}
	m.state = StateLoggedOut
	m.user = nil
	m.guestID = ""
	return nil
}

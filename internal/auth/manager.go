package auth

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/session"
)

// State of the auth session machine.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateDenied:
		return "denied"
	default:
		return "unauthenticated"
	}
}

const (
	// DefaultExpiryInterval is how often the watcher re-checks cached
	// session validity.
	DefaultExpiryInterval = 5 * time.Minute

	// DefaultReadyTimeout bounds how long startup waits for the provider's
	// first state report before proceeding as unauthenticated.
	DefaultReadyTimeout = 3 * time.Second
)

type profileReader interface {
	FindCoachByID(ctx context.Context, userID int64) (*models.Profile, error)
	FindCoachByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// Manager wraps the auth provider with coach-profile resolution and session
// caching. A Manager tracks one client session; handlers build short-lived
// Managers per request over shared dependencies.
type Manager struct {
	provider Provider
	profiles profileReader
	store    session.Store
	clock    func() time.Time

	mu      sync.Mutex
	state   State
	profile *models.Profile

	ready     chan struct{}
	readyOnce sync.Once
}

type ManagerOption func(*Manager)

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.clock = now
	}
}

func NewManager(
	provider Provider,
	profiles profileReader,
	store session.Store,
	opts ...ManagerOption,
) *Manager {
	manager := &Manager{
		provider: provider,
		profiles: profiles,
		store:    store,
		clock:    time.Now,
		state:    StateUnauthenticated,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

func (m *Manager) cacheFor(uid string) *session.Cache {
	return session.NewCache(m.store, session.WithNamespace(uid), session.WithClock(m.clock))
}

// SignIn authenticates against the provider, then gates on a matching active
// coach profile. When the identity has no coach profile, or the profile is
// deactivated, the remote session is torn down before the error surfaces so
// no authenticated-but-unauthorized state is left behind.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.Profile, error) {
	m.setState(StateAuthenticating, nil)

	identity, err := m.provider.Authenticate(ctx, email, password)
	if err != nil {
		m.setState(StateUnauthenticated, nil)
		return nil, err
	}

	profile, err := m.profiles.FindCoachByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.teardownRemote(ctx)
			m.setState(StateDenied, nil)
			return nil, ErrAccessDenied
		}
		m.setState(StateUnauthenticated, nil)
		return nil, err
	}
	if !profile.IsActive {
		m.teardownRemote(ctx)
		m.setState(StateDenied, nil)
		return nil, ErrAccountDeactivated
	}

	if err := m.cacheFor(identity.UID).Save(ctx, profile); err != nil {
		log.Printf("auth: session cache write failed: %v", err)
	}

	m.setState(StateAuthenticated, profile)
	m.signalReady()
	return profile, nil
}

// SignOut deauthenticates the provider and clears the session cache. The
// cache is cleared even when the remote sign-out fails; the remote error is
// returned but local state is always reset.
func (m *Manager) SignOut(ctx context.Context) error {
	identity := m.provider.CurrentIdentity()

	err := m.provider.Deauthenticate(ctx)
	if err != nil {
		log.Printf("auth: remote sign-out failed: %v", err)
	}

	if identity != nil {
		if cerr := m.cacheFor(identity.UID).Clear(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}

	m.setState(StateUnauthenticated, nil)
	m.signalReady()
	return err
}

// CurrentProfile resolves the coach profile for a remote identity: a valid
// matching cache entry first, then lookup by id, then lookup by email, both
// gated on the coach role. Every successful resolution refreshes the cache.
func (m *Manager) CurrentProfile(ctx context.Context, identity *Identity) (*models.Profile, error) {
	if identity == nil {
		return nil, ErrProfileNotFound
	}
	cache := m.cacheFor(identity.UID)

	if cache.IsValid(ctx) {
		cached, err := cache.Load(ctx)
		if err == nil && strconv.FormatInt(cached.UserID, 10) == identity.UID {
			if err := cache.Save(ctx, cached); err != nil {
				log.Printf("auth: session cache refresh failed: %v", err)
			}
			return cached, nil
		}
	} else {
		_ = cache.Clear(ctx)
	}

	if userID, err := strconv.ParseInt(identity.UID, 10, 64); err == nil {
		profile, err := m.profiles.FindCoachByID(ctx, userID)
		if err == nil {
			if err := cache.Save(ctx, profile); err != nil {
				log.Printf("auth: session cache write failed: %v", err)
			}
			return profile, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if identity.Email != "" {
		profile, err := m.profiles.FindCoachByEmail(ctx, strings.ToLower(identity.Email))
		if err == nil {
			if err := cache.Save(ctx, profile); err != nil {
				log.Printf("auth: session cache write failed: %v", err)
			}
			return profile, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return nil, ErrProfileNotFound
}

// OnAuthStateChange subscribes to provider transitions. The callback receives
// the resolved profile, or nil when there is no valid coach session, and is
// invoked after resolution completes. A remote identity without a coach
// profile forces a remote sign-out, which itself reports as a transition.
func (m *Manager) OnAuthStateChange(cb func(*models.Profile)) func() {
	return m.provider.OnStateChange(func(identity *Identity) {
		defer m.signalReady()
		ctx := context.Background()

		if identity == nil {
			m.mu.Lock()
			last := m.profile
			m.mu.Unlock()
			if last != nil {
				_ = m.cacheFor(strconv.FormatInt(last.UserID, 10)).Clear(ctx)
			}
			m.setState(StateUnauthenticated, nil)
			cb(nil)
			return
		}

		profile, err := m.CurrentProfile(ctx, identity)
		if err != nil {
			if !errors.Is(err, ErrProfileNotFound) {
				log.Printf("auth: profile resolution failed for uid %s: %v", identity.UID, err)
			}
			m.teardownRemote(ctx)
			m.setState(StateUnauthenticated, nil)
			cb(nil)
			return
		}

		m.setState(StateAuthenticated, profile)
		cb(profile)
	})
}

// AwaitReady blocks until the provider has reported an auth state, or the
// timeout elapses. A false return means startup should proceed as
// unauthenticated; a late report still updates state when it arrives.
func (m *Manager) AwaitReady(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	select {
	case <-m.ready:
		return true
	case <-time.After(timeout):
		return false
	}
}

// StartExpiryWatcher periodically checks the cached session for the current
// identity and forces a sign-out once it is no longer valid. Runs until ctx
// is cancelled.
func (m *Manager) StartExpiryWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultExpiryInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				identity := m.provider.CurrentIdentity()
				if identity == nil {
					continue
				}
				if !m.cacheFor(identity.UID).IsValid(ctx) {
					log.Printf("auth: session expired for uid %s, signing out", identity.UID)
					if err := m.SignOut(ctx); err != nil {
						log.Printf("auth: forced sign-out failed: %v", err)
					}
				}
			}
		}
	}()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Profile() *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

func (m *Manager) setState(state State, profile *models.Profile) {
	m.mu.Lock()
	m.state = state
	m.profile = profile
	m.mu.Unlock()
}

func (m *Manager) signalReady() {
	m.readyOnce.Do(func() {
		close(m.ready)
	})
}

func (m *Manager) teardownRemote(ctx context.Context) {
	if err := m.provider.Deauthenticate(ctx); err != nil {
		log.Printf("auth: remote teardown failed: %v", err)
	}
}

package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/pkg/utils"
)

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// LocalProvider authenticates against the users table with bcrypt-hashed
// passwords. It does not know about roles; gating on the coach role is the
// Manager's responsibility.
type LocalProvider struct {
	users userReader

	mu      sync.Mutex
	current *Identity
	subs    map[int64]func(*Identity)
	nextSub int64
}

func NewLocalProvider(users userReader) *LocalProvider {
	return &LocalProvider{
		users: users,
		subs:  make(map[int64]func(*Identity)),
	}
}

func (p *LocalProvider) Authenticate(
	ctx context.Context,
	email, password string,
) (*Identity, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := p.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	identity := &Identity{
		UID:   strconv.FormatInt(user.ID, 10),
		Email: user.Email,
	}

	p.mu.Lock()
	p.current = identity
	p.mu.Unlock()

	p.notify(identity)
	return identity, nil
}

// Resume installs an identity restored from an existing credential, such as
// a bearer token, without re-running authentication. Subscribers are not
// notified; resumption is not a transition.
func (p *LocalProvider) Resume(identity *Identity) {
	p.mu.Lock()
	p.current = identity
	p.mu.Unlock()
}

func (p *LocalProvider) Deauthenticate(_ context.Context) error {
	p.mu.Lock()
	wasAuthenticated := p.current != nil
	p.current = nil
	p.mu.Unlock()

	if wasAuthenticated {
		p.notify(nil)
	}
	return nil
}

func (p *LocalProvider) CurrentIdentity() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *LocalProvider) OnStateChange(cb func(*Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = cb
	current := p.current
	p.mu.Unlock()

	// Initial state report, asynchronous like the original provider's
	// on-subscribe callback.
	go cb(current)

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *LocalProvider) notify(identity *Identity) {
	p.mu.Lock()
	callbacks := make([]func(*Identity), 0, len(p.subs))
	for _, cb := range p.subs {
		callbacks = append(callbacks, cb)
	}
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(identity)
	}
}

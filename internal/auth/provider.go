package auth

import "context"

// Identity is the auth provider's notion of "who is logged in", distinct from
// the application's coach Profile.
type Identity struct {
	UID   string
	Email string
}

// Provider abstracts the remote authentication backend. Implementations hold
// the currently authenticated identity and notify subscribers on every
// transition (sign-in and sign-out).
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	Deauthenticate(ctx context.Context) error
	CurrentIdentity() *Identity

	// OnStateChange registers a callback invoked with the identity after
	// every auth transition, and once with the current identity shortly
	// after registration. The returned function unsubscribes.
	OnStateChange(cb func(*Identity)) (unsubscribe func())
}

package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by the provider when email or
	// password do not match an account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccessDenied means the provider authenticated the identity but no
	// coach profile matches it. The remote session is torn down before this
	// surfaces.
	ErrAccessDenied = errors.New("access denied: no coach account found for this email")

	// ErrAccountDeactivated means a matching coach profile exists but is
	// marked inactive. Same teardown discipline as ErrAccessDenied.
	ErrAccountDeactivated = errors.New("coach account has been deactivated")

	// ErrProfileNotFound means no coach profile could be resolved for a
	// remote identity.
	ErrProfileNotFound = errors.New("no coach profile for identity")
)

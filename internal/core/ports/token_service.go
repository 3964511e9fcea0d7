package ports

import "github.com/aegis-sentinel/backend/internal/core/domain"

// TokenService issues and verifies signed, time-limited session tokens.
// Verification is stateless: there is no server-side revocation, expiry is
// the only termination mechanism.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify returns the embedded claims, or domain.ErrInvalidToken when the
	// signature, structure, or expiry is not valid.
	Verify(raw string) (*domain.Claims, error)
}

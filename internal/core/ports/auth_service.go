package ports

import (
	"context"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// AuthService defines registration and login.
type AuthService interface {
	// Register creates a user and returns a fresh session token alongside it.
	// The first user ever registered gets the admin role.
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

package ports

import (
	"context"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// UserRepository defines the interface for user identity persistence.
type UserRepository interface {
	// FindByEmail looks a user up by exact, case-sensitive email match.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users for the given ids keyed by id. Missing ids
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Count returns the total number of registered users. The first-ever
	// registration (count zero) is assigned the admin role.
	Count(ctx context.Context) (int64, error)
}

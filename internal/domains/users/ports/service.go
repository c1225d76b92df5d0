package ports

import (
	"context"

	"github.com/shopora/shop-api/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, name, phone string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, email string)
}

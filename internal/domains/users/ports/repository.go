package ports

import (
	"context"
	"errors"

	"github.com/shopora/shop-api/internal/domains/users/domain"
)

var ErrNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid email or password")

type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
	AttachOrder(ctx context.Context, userID, orderID int64) error
	DetachOrder(ctx context.Context, userID, orderID int64) error
}

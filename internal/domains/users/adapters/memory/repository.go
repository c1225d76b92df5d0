package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopora/shop-api/internal/domains/users/domain"
	"github.com/shopora/shop-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := cloneUser(user)
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.users[clone.ID] = clone
	user.ID = clone.ID
	return cloneUser(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		list = append(list, cloneUser(user))
	}
	return list, nil
}

func (r *Repository) AttachOrder(_ context.Context, userID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	user.AttachOrder(orderID)
	return nil
}

func (r *Repository) DetachOrder(_ context.Context, userID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	user.DetachOrder(orderID)
	return nil
}

func cloneUser(user *domain.User) *domain.User {
	clone := *user
	clone.Orders = append([]int64{}, user.Orders...)
	return &clone
}

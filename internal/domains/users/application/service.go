package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopora/shop-api/internal/domains/users/domain"
	"github.com/shopora/shop-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions}
}

func (s *Service) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, name, phone string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(name, phone); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_ = s.sessions.Delete(ctx, user.Email)
	return s.repo.Delete(ctx, id)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if !user.CheckPassword(password) {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	token := fmt.Sprintf("%s:%d", email, time.Now().UnixNano())
	if err := s.sessions.Save(ctx, email, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) Logout(ctx context.Context, email string) {
	if strings.TrimSpace(email) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, strings.ToLower(strings.TrimSpace(email)))
}

var _ ports.Service = (*Service)(nil)

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	"github.com/shopora/shop-api/internal/domains/users/domain"
	"github.com/shopora/shop-api/internal/domains/users/ports"
)

func registerUser(t *testing.T, svc *Service, name, email, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(0, name, email, password)
	require.NoError(t, err)
	saved, err := svc.Register(context.Background(), user)
	require.NoError(t, err)
	return saved
}

func TestRegister_AssignsIDAndDefaults(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), usermemory.NewSessionStore())

	saved := registerUser(t, svc, "Ada", "Ada@Example.com", "hunter2-long")
	require.NotZero(t, saved.ID)
	require.Equal(t, "ada@example.com", saved.Email)
	require.Equal(t, domain.RoleCustomer, saved.Role)
}

func TestRegister_Invalid(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), nil)

	user := &domain.User{Name: "Ada", Email: "not-an-email", Password: "hunter2-long"}
	_, err := svc.Register(context.Background(), user)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	user = &domain.User{Name: "Ada", Email: "ada@example.com", Password: "short"}
	_, err = svc.Register(context.Background(), user)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLogin_IssuesToken(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), usermemory.NewSessionStore())
	registerUser(t, svc, "Ada", "ada@example.com", "hunter2-long")

	token, err := svc.Login(context.Background(), " Ada@Example.com ", "hunter2-long")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), usermemory.NewSessionStore())
	registerUser(t, svc, "Ada", "ada@example.com", "hunter2-long")

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	// Unknown accounts fail the same way as bad passwords.
	_, err = svc.Login(context.Background(), "ghost@example.com", "hunter2-long")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), nil)
	saved := registerUser(t, svc, "Ada", "ada@example.com", "hunter2-long")

	updated, err := svc.UpdateProfile(context.Background(), saved.ID, "Ada Lovelace", "+44-555-0100")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", updated.Name)
	require.Equal(t, "+44-555-0100", updated.Phone)

	// A blank name keeps the current one.
	kept, err := svc.UpdateProfile(context.Background(), saved.ID, " ", "")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", kept.Name)
}

func TestDelete_RemovesAccount(t *testing.T) {
	svc := NewService(usermemory.NewRepository(), usermemory.NewSessionStore())
	saved := registerUser(t, svc, "Ada", "ada@example.com", "hunter2-long")

	require.NoError(t, svc.Delete(context.Background(), saved.ID))
	_, err := svc.GetUserByID(context.Background(), saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, email, token string) error {
	s.session.Store(email, token)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, email string) error {
	s.session.Delete(email)
	return nil
}

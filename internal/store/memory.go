package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/pkg/models"
)

// MemoryStore implements UserStore with an in-memory map keyed by lowercased
// mail address. Used when PostgreSQL is not configured (local dev, tests).
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User // key: lowercased mail
}

// NewMemoryStore creates a new in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
	}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, mail string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(mail)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Mail == "" {
		return &ValidationError{Field: "mail", Reason: "cannot be blank"}
	}
	if user.Login == "" {
		return &ValidationError{Field: "login", Reason: "cannot be blank"}
	}

	key := strings.ToLower(user.Mail)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return &ValidationError{Field: "mail", Reason: "has already been taken"}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.users[key] = &cp
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	key := strings.ToLower(user.Mail)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; !exists {
		return &ValidationError{Field: "mail", Reason: "does not exist"}
	}

	user.UpdatedAt = time.Now().UTC()
	cp := *user
	s.users[key] = &cp
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	log.Debug().Msg("In-memory user store closed")
	return nil
}

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// MemoryStore is an in-process Store for tests and single-node runs
// without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]User // keyed by ID
	emails      map[string]string
	generations []Generation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]User),
		emails: make(map[string]string),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.emails[email]; ok {
		return errors.New(errors.ErrCodeUserExists, "email already registered")
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return User{}, errors.New(errors.ErrCodeUserNotFound, "no account for %s", email)
	}
	return s.users[id], nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, errors.New(errors.ErrCodeUserNotFound, "no such user")
	}
	return u, nil
}

func (s *MemoryStore) SaveGeneration(ctx context.Context, g Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = append(s.generations, g)
	return nil
}

func (s *MemoryStore) GenerationsByUser(ctx context.Context, userID string, limit int) ([]Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Generation, 0)
	for _, g := range s.generations {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GenerationByID(ctx context.Context, id string) (Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.generations {
		if g.ID == id {
			return g, nil
		}
	}
	return Generation{}, errors.New(errors.ErrCodeGenerationNotFound, "no such generation")
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexflow/backend/pkg/models"
)

// MemoryStore is an in-process Repository used by tests and by the
// server when no database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	workflows map[string]*models.Workflow
	owners    map[string]*models.Owner
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows: make(map[string]*models.Workflow),
		owners:    make(map[string]*models.Owner),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) SaveWorkflow(_ context.Context, wf *models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[wf.ID] = wf.Clone()
	return nil
}

func (s *MemoryStore) GetWorkflow(_ context.Context, id string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return wf.Clone(), nil
}

func (s *MemoryStore) ListWorkflows(_ context.Context, ownerID string) ([]*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Workflow{}
	for _, wf := range s.workflows {
		if wf.OwnerID == ownerID {
			out = append(out, wf.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetOwnerByEmail(_ context.Context, email string) (*models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.owners[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryStore) CreateOwner(_ context.Context, owner *models.Owner) error {
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = time.Now().UTC()
	}
	owner.Email = strings.ToLower(owner.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.owners[owner.Email]; taken {
		return fmt.Errorf("owner %s: %w", owner.Email, ErrConflict)
	}
	cp := *owner
	s.owners[owner.Email] = &cp
	return nil
}

var _ Repository = (*MemoryStore)(nil)

package contacts

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.Contact
	pinned  map[uuid.UUID]bool
	nextSeq int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[uuid.UUID]models.Contact),
		pinned: make(map[uuid.UUID]bool),
	}
}

func (r *MemoryRepository) Add(ctx context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := r.byID[c.ID]; ok {
		return fmt.Errorf("failed to add contact %s: %w", c.ID, common.ErrContactExists)
	}

	c.Seq = r.nextSeq
	r.nextSeq++
	r.byID[c.ID] = *c
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[c.ID]
	if !ok {
		return fmt.Errorf("failed to update contact %s: %w", c.ID, common.ErrContactNotFound)
	}
	c.Seq = old.Seq
	r.byID[c.ID] = *c
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("contact %s: %w", id, common.ErrContactNotFound)
	}
	return &c, nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := slices.Collect(maps.Values(r.byID))
	slices.SortFunc(result, func(a, b models.Contact) int { return cmp.Compare(a.Seq, b.Seq) })
	return result, nil
}

func (r *MemoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("failed to delete contact %s: %w", id, common.ErrContactNotFound)
	}
	delete(r.byID, id)
	delete(r.pinned, id)
	return nil
}

func (r *MemoryRepository) Pin(ctx context.Context, id uuid.UUID) error {
	return r.setPinned(id, true)
}

func (r *MemoryRepository) Unpin(ctx context.Context, id uuid.UUID) error {
	return r.setPinned(id, false)
}

func (r *MemoryRepository) setPinned(id uuid.UUID, pinned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("contact %s: %w", id, common.ErrContactNotFound)
	}
	if pinned {
		r.pinned[id] = true
	} else {
		delete(r.pinned, id)
	}
	return nil
}

func (r *MemoryRepository) IsPinned(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[id]; !ok {
		return false, fmt.Errorf("contact %s: %w", id, common.ErrContactNotFound)
	}
	return r.pinned[id], nil
}

func (r *MemoryRepository) Pinned(ctx context.Context) (map[uuid.UUID]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.pinned), nil
}

func (r *MemoryRepository) Companies(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, c := range r.byID {
		if name := strings.TrimSpace(c.Company); name != "" {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

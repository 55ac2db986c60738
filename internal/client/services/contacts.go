package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/query"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/gophnotes/internal/client/store"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/uuid"
)

// ContactService manages contacts and renders the conversation list.
//
// Contract:
//   - Add assigns the id (when missing), registration order and CreatedAt.
//   - Remove also forgets the contact's conversation and cancels its uploads.
//   - Rows filters, derives and sorts; derived data is reused while the
//     conversation's store version is unchanged.
type ContactService interface {
	Add(ctx context.Context, c models.Contact) (models.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, c models.Contact) error
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Contact, error)

	Pin(ctx context.Context, id uuid.UUID) error
	Unpin(ctx context.Context, id uuid.UUID) error
	Companies(ctx context.Context) ([]string, error)

	Rows(ctx context.Context, filter query.Filter, now time.Time) ([]query.Row, error)
}

type contactService struct {
	repo   contacts.Repository
	store  *store.Store
	notes  NoteService
	cache  *query.RowCache
	labels query.Labels
	clock  func() time.Time
}

func NewContactService(repo contacts.Repository, st *store.Store, notes NoteService, cache *query.RowCache, labels query.Labels) ContactService {
	return &contactService{repo: repo, store: st, notes: notes, cache: cache, labels: labels, clock: time.Now}
}

func (s *contactService) Add(ctx context.Context, c models.Contact) (models.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return models.Contact{}, fmt.Errorf("%w: name is required", common.ErrInvalidContact)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock()
	}
	if err := s.repo.Add(ctx, &c); err != nil {
		return models.Contact{}, fmt.Errorf("error adding contact: %w", err)
	}
	return c, nil
}

func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving contact: %w", err)
	}
	return c, nil
}

func (s *contactService) Update(ctx context.Context, c models.Contact) error {
	if err := s.repo.Update(ctx, &c); err != nil {
		return fmt.Errorf("error updating contact: %w", err)
	}
	return nil
}

func (s *contactService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting contact: %w", err)
	}
	s.notes.DropConversation(ctx, id)
	s.cache.Remove(id)
	return nil
}

func (s *contactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.repo.GetAll(ctx)
}

func (s *contactService) Pin(ctx context.Context, id uuid.UUID) error {
	return s.repo.Pin(ctx, id)
}

func (s *contactService) Unpin(ctx context.Context, id uuid.UUID) error {
	return s.repo.Unpin(ctx, id)
}

func (s *contactService) Companies(ctx context.Context) ([]string, error) {
	return s.repo.Companies(ctx)
}

func (s *contactService) Rows(ctx context.Context, filter query.Filter, now time.Time) ([]query.Row, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	pinned, err := s.repo.Pinned(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing pins: %w", err)
	}

	rows := make([]query.Row, 0, len(all))
	for _, c := range all {
		if !filter.Match(c) {
			continue
		}
		rows = append(rows, s.labels.NewRow(c, pinned[c.ID], s.derive(c.ID), now))
	}
	query.SortRows(rows)
	return rows, nil
}

func (s *contactService) derive(id uuid.UUID) query.Derived {
	if d, ok := s.cache.Get(id, s.store.Version(id)); ok {
		return d
	}
	notes, version := s.store.Snapshot(id)
	d := query.Derive(notes)
	s.cache.Put(id, version, d)
	return d
}

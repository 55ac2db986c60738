package contacts

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/google/uuid"
)

// Repository describes CRUD, pin and query operations for Contact objects.
type Repository interface {
	// Add stores a new contact. A nil ID is replaced with a fresh one; Seq is
	// always assigned by the repository.
	Add(ctx context.Context, c *models.Contact) error

	// Update replaces the fields of an existing contact, keeping its Seq.
	Update(ctx context.Context, c *models.Contact) error

	// GetByID returns a contact by its identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)

	// GetAll returns every contact in registration order.
	GetAll(ctx context.Context) ([]models.Contact, error)

	// DeleteByID removes a contact and its pin.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	Pin(ctx context.Context, id uuid.UUID) error
	Unpin(ctx context.Context, id uuid.UUID) error
	IsPinned(ctx context.Context, id uuid.UUID) (bool, error)

	// Pinned returns a snapshot of the pinned set.
	Pinned(ctx context.Context) (map[uuid.UUID]bool, error)

	// Companies lists the distinct non-blank trimmed companies, sorted.
	Companies(ctx context.Context) ([]string, error)
}

// Package contacts provides the client-side registry of contacts.
//
// # Overview
//
// The package defines a Repository interface for CRUD and query operations on
// Contact models (see internal/client/models). MemoryRepository keeps data for
// the lifetime of the process only.
//
// # Ordering
//
// Every contact gets a registration sequence number (Contact.Seq) when it is
// added. GetAll returns contacts in that order and the conversation list uses
// it as its final tie-break, so it never changes once assigned, even when the
// contact is updated.
//
// # Pins
//
// Pinned contacts are kept as a set beside the contacts. Removing a contact
// also unpins it.
//
// # Concurrency
//
// MemoryRepository is safe for concurrent use.
//
// Typical Usage
//
//	repo := contacts.NewMemoryRepository()
//	_ = repo.Add(ctx, &c)
//	list, _ := repo.GetAll(ctx)
//	_ = repo.Pin(ctx, c.ID)
//	pinned, _ := repo.Pinned(ctx)
package contacts

// Package services contains application services for the notes client.
// This file defines the note service: the engine facade that presentation
// code uses to read, write and observe conversations.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/ordering"
	"github.com/dmitrijs2005/gophnotes/internal/client/store"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/google/uuid"
)

// NoteService defines note operations for the CLI.
//
// Contract:
//   - Mutations addressed at a missing note or attachment are dropped and
//     logged at debug level. They never return an error.
//   - Every applied mutation produces exactly one store event.
//   - Deleting a note or attachment cancels its upload jobs.
type NoteService interface {
	GetNotes(conversationID uuid.UUID) []models.Note
	AppendNote(ctx context.Context, conversationID uuid.UUID, note models.Note)
	SetNotes(ctx context.Context, conversationID uuid.UUID, notes []models.Note)

	// Post appends note and starts its uploads. It returns the number of
	// upload jobs started.
	Post(ctx context.Context, conversationID uuid.UUID, note models.Note) int

	Subscribe(conversationID uuid.UUID, fn store.Observer) store.SubscriptionID
	SubscribeAll(fn store.Observer) store.SubscriptionID
	Unsubscribe(id store.SubscriptionID)

	StartUploadSimulation(ctx context.Context, conversationID, noteID uuid.UUID) int

	// DeleteAttachment removes the attachment at index within kind and
	// reindexes media. An emptied bundle becomes nil; removing the then
	// empty note is up to the caller. It returns the updated note.
	DeleteAttachment(ctx context.Context, conversationID, noteID uuid.UUID, kind models.Kind, index int) (models.Note, bool)

	DeleteNote(ctx context.Context, conversationID, noteID uuid.UUID) bool

	// MoveMedia moves the media item displayed at from to position to.
	MoveMedia(ctx context.Context, conversationID, noteID uuid.UUID, from, to int) bool

	// DropConversation forgets every note of a conversation.
	DropConversation(ctx context.Context, conversationID uuid.UUID)
}

// Uploader runs upload jobs. *upload.Simulator satisfies it.
type Uploader interface {
	Start(ctx context.Context, conversationID, noteID uuid.UUID) int
	CancelNote(noteID uuid.UUID) int
	CancelAttachment(attachmentID uuid.UUID) bool
}

// noteService is the concrete NoteService over the conversation store.
type noteService struct {
	store   *store.Store
	uploads Uploader
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewNoteService(st *store.Store, uploads Uploader, logger logging.Logger, m *metrics.Metrics) NoteService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &noteService{store: st, uploads: uploads, logger: logger, metrics: m}
}

func (s *noteService) GetNotes(conversationID uuid.UUID) []models.Note {
	return s.store.Get(conversationID)
}

func (s *noteService) AppendNote(ctx context.Context, conversationID uuid.UUID, note models.Note) {
	s.store.Append(conversationID, note)
}

func (s *noteService) SetNotes(ctx context.Context, conversationID uuid.UUID, notes []models.Note) {
	s.store.Replace(conversationID, notes)
}

func (s *noteService) Post(ctx context.Context, conversationID uuid.UUID, note models.Note) int {
	s.store.Append(conversationID, note)
	return s.uploads.Start(ctx, conversationID, note.ID)
}

func (s *noteService) Subscribe(conversationID uuid.UUID, fn store.Observer) store.SubscriptionID {
	return s.store.Subscribe(conversationID, fn)
}

func (s *noteService) SubscribeAll(fn store.Observer) store.SubscriptionID {
	return s.store.SubscribeAll(fn)
}

func (s *noteService) Unsubscribe(id store.SubscriptionID) {
	s.store.Unsubscribe(id)
}

func (s *noteService) StartUploadSimulation(ctx context.Context, conversationID, noteID uuid.UUID) int {
	return s.uploads.Start(ctx, conversationID, noteID)
}

func (s *noteService) DeleteAttachment(ctx context.Context, conversationID, noteID uuid.UUID, kind models.Kind, index int) (models.Note, bool) {
	var (
		updated models.Note
		removed uuid.UUID
	)
	err := s.store.Update(conversationID, func(notes []models.Note) ([]models.Note, error) {
		i := models.IndexOf(notes, noteID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", common.ErrNoteNotFound, noteID)
		}
		n, id, err := withoutAttachment(notes[i], kind, index)
		if err != nil {
			return nil, err
		}
		notes[i] = n
		updated, removed = n, id
		return notes, nil
	})
	if err != nil {
		s.dropped(ctx, "delete attachment", err,
			"conversation_id", conversationID, "note_id", noteID, "kind", kind, "index", index)
		return models.Note{}, false
	}

	if removed != uuid.Nil {
		s.uploads.CancelAttachment(removed)
	}
	return updated, true
}

// withoutAttachment returns n without the attachment at index within kind,
// and the id of the removed attachment when it has one.
func withoutAttachment(n models.Note, kind models.Kind, index int) (models.Note, uuid.UUID, error) {
	notFound := fmt.Errorf("%w: %s #%d", common.ErrAttachmentNotFound, kind, index)
	var id uuid.UUID

	switch b := n.Bundle.(type) {
	case models.MediaBundle:
		switch {
		case kind == models.KindImage && index >= 0 && index < len(b.Images):
			id = b.Images[index].ID
		case kind == models.KindVideo && index >= 0 && index < len(b.Videos):
			id = b.Videos[index].ID
		default:
			return n, id, notFound
		}
		out, err := ordering.Remove(b, kind, index)
		if err != nil {
			return n, id, err
		}
		n.Bundle = out
	case models.FilesBundle:
		if kind != models.KindFile || index < 0 || index >= len(b.Files) {
			return n, id, notFound
		}
		id = b.Files[index].ID
		b.Files = slices.Delete(slices.Clone(b.Files), index, index+1)
		n.Bundle = b
	case models.AudioBundle:
		if kind != models.KindAudio || index < 0 || index >= len(b.Items) {
			return n, id, notFound
		}
		b.Items = slices.Delete(slices.Clone(b.Items), index, index+1)
		n.Bundle = b
	default:
		return n, id, notFound
	}

	if n.Bundle.Len() == 0 {
		n.Bundle = nil
	}
	return n, id, nil
}

func (s *noteService) DeleteNote(ctx context.Context, conversationID, noteID uuid.UUID) bool {
	s.uploads.CancelNote(noteID)

	err := s.store.Update(conversationID, func(notes []models.Note) ([]models.Note, error) {
		return models.RemoveNote(notes, noteID)
	})
	if err != nil {
		s.dropped(ctx, "delete note", err, "conversation_id", conversationID, "note_id", noteID)
		return false
	}
	return true
}

func (s *noteService) MoveMedia(ctx context.Context, conversationID, noteID uuid.UUID, from, to int) bool {
	err := s.store.Update(conversationID, func(notes []models.Note) ([]models.Note, error) {
		i := models.IndexOf(notes, noteID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", common.ErrNoteNotFound, noteID)
		}
		b, ok := notes[i].Bundle.(models.MediaBundle)
		if !ok {
			return nil, fmt.Errorf("%w: note has no media", common.ErrAttachmentNotFound)
		}
		out, err := ordering.Move(b, from, to)
		if err != nil {
			return nil, err
		}
		notes[i].Bundle = out
		return notes, nil
	})
	if err != nil {
		s.dropped(ctx, "move media", err,
			"conversation_id", conversationID, "note_id", noteID, "from", from, "to", to)
		return false
	}
	return true
}

func (s *noteService) DropConversation(ctx context.Context, conversationID uuid.UUID) {
	for _, n := range s.store.Get(conversationID) {
		s.uploads.CancelNote(n.ID)
	}
	s.store.Drop(conversationID)
}

func (s *noteService) dropped(ctx context.Context, op string, err error, args ...any) {
	reason := metrics.ReasonAttachmentMissing
	if errors.Is(err, common.ErrNoteNotFound) {
		reason = metrics.ReasonNoteMissing
	}
	s.metrics.Dropped(reason)
	s.logger.Debug(ctx, op+" dropped", append(args, "error", err)...)
}

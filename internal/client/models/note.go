package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/uuid"
)

// Note is one chat-like entry of a conversation.
type Note struct {
	// ID is generated at creation and never reused.
	ID        uuid.UUID
	CreatedAt time.Time

	// Text is the note body; empty means the note has no text.
	Text string

	// Bundle is nil when the note has no attachments.
	Bundle Bundle
}

// NewNote stamps a fresh id and the creation time on text and bundle.
// A bundle with no items is stored as nil.
func NewNote(now time.Time, text string, b Bundle) Note {
	if b != nil && b.Len() == 0 {
		b = nil
	}
	return Note{ID: uuid.New(), CreatedAt: now, Text: text, Bundle: b}
}

// NewTextNote creates a note carrying only text.
func NewTextNote(now time.Time, text string) Note {
	return NewNote(now, text, nil)
}

// NewMediaNote creates a note with pictures and videos queued for upload.
func NewMediaNote(now time.Time, text string, images []Image, videos []Video) Note {
	return NewNote(now, text, NewMediaBundle(images, videos))
}

// NewFilesNote creates a note with documents queued for upload.
func NewFilesNote(now time.Time, text string, files []File) Note {
	return NewNote(now, text, NewFilesBundle(files))
}

// NewAudioNote creates a note holding one recording.
func NewAudioNote(now time.Time, a Audio) Note {
	return NewNote(now, "", NewAudioBundle(a))
}

// HasText reports whether the note carries non-blank text.
func (n Note) HasText() bool {
	return strings.TrimSpace(n.Text) != ""
}

// IsEmpty reports whether the note has neither text nor attachments.
// Callers remove such notes after deleting their last attachment.
func (n Note) IsEmpty() bool {
	return !n.HasText() && n.Bundle == nil
}

// Uploading reports whether any attachment of the note still has progress.
func (n Note) Uploading() bool {
	switch b := n.Bundle.(type) {
	case MediaBundle:
		return slices.ContainsFunc(b.Images, Image.Uploading) || slices.ContainsFunc(b.Videos, Video.Uploading)
	case FilesBundle:
		return slices.ContainsFunc(b.Files, File.Uploading)
	}
	return false
}

// IndexOf returns the position of the note with id, or -1.
func IndexOf(notes []Note, id uuid.UUID) int {
	return slices.IndexFunc(notes, func(n Note) bool { return n.ID == id })
}

// ReplaceNote returns a copy of notes with the note sharing n's id swapped
// for n.
func ReplaceNote(notes []Note, n Note) ([]Note, error) {
	i := IndexOf(notes, n.ID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoteNotFound, n.ID)
	}
	out := slices.Clone(notes)
	out[i] = n
	return out, nil
}

// RemoveNote returns a copy of notes without the note with id.
func RemoveNote(notes []Note, id uuid.UUID) ([]Note, error) {
	i := IndexOf(notes, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoteNotFound, id)
	}
	out := make([]Note, 0, len(notes)-1)
	out = append(out, notes[:i]...)
	return append(out, notes[i+1:]...), nil
}

// WithProgress returns n with the progress of one attachment replaced.
// The attachment is addressed by kind and id; the bundle is rebuilt so the
// original note stays untouched.
func WithProgress(n Note, kind Kind, id uuid.UUID, p *float64) (Note, error) {
	notFound := fmt.Errorf("%w: %s %s", common.ErrAttachmentNotFound, kind, id)

	switch b := n.Bundle.(type) {
	case MediaBundle:
		switch kind {
		case KindImage:
			i := slices.IndexFunc(b.Images, func(x Image) bool { return x.ID == id })
			if i < 0 {
				return n, notFound
			}
			b.Images = slices.Clone(b.Images)
			b.Images[i].Progress = p
		case KindVideo:
			i := slices.IndexFunc(b.Videos, func(x Video) bool { return x.ID == id })
			if i < 0 {
				return n, notFound
			}
			b.Videos = slices.Clone(b.Videos)
			b.Videos[i].Progress = p
		default:
			return n, notFound
		}
		n.Bundle = b
	case FilesBundle:
		i := slices.IndexFunc(b.Files, func(x File) bool { return x.ID == id })
		if kind != KindFile || i < 0 {
			return n, notFound
		}
		b.Files = slices.Clone(b.Files)
		b.Files[i].Progress = p
		n.Bundle = b
	default:
		return n, notFound
	}
	return n, nil
}

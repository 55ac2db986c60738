// Package common defines sentinel errors shared by the note engine and the
// client shell. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors. The engine absorbs these into no-ops; they never reach
	// presentation code through the note APIs.
	ErrNoteNotFound       = errors.New("note not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	// Contact registry errors.
	ErrContactNotFound = errors.New("contact not found")
	ErrContactExists   = errors.New("contact already exists")
	ErrInvalidContact  = errors.New("invalid contact")

	// Validation errors.
	ErrInvalidKind = errors.New("invalid attachment kind")
	ErrEmptyNote   = errors.New("note has neither text nor attachments")
)

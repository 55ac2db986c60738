// Package models defines the note and attachment value types of the notes
// client.
//
// All types are values. A Note and its Bundle are never modified in place
// once they have been handed to the conversation store: every change builds
// fresh slices and the owning Note is written back whole.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/uuid"
)

// Kind classifies an attachment.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindFile  Kind = "file"
	KindAudio Kind = "audio"
)

// ParseKind maps a user-supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindImage, KindVideo, KindFile, KindAudio:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidKind, s)
}

// Image is a captured or picked picture. Payload is opaque to the engine.
type Image struct {
	ID      uuid.UUID
	Payload []byte

	// Progress is nil once uploaded, otherwise a fraction in [0,1].
	Progress *float64
	// Order is the display position among the note's images and videos.
	Order *int
}

// Video references a movie by location.
type Video struct {
	ID       uuid.UUID
	Location string
	Progress *float64
	Order    *int
}

// File references a document by location. Files render in their own grid
// and carry no display order.
type File struct {
	ID        uuid.UUID
	Location  string
	MediaType string
	Progress  *float64
}

// Audio references a recording. It never uploads and is singular per note.
type Audio struct {
	Location string
	Duration *time.Duration
}

func (x Image) GetKind() Kind { return KindImage }
func (x Video) GetKind() Kind { return KindVideo }
func (x File) GetKind() Kind  { return KindFile }
func (x Audio) GetKind() Kind { return KindAudio }

// Uploading reports whether the attachment still has a progress value.
func (x Image) Uploading() bool { return x.Progress != nil }
func (x Video) Uploading() bool { return x.Progress != nil }
func (x File) Uploading() bool  { return x.Progress != nil }

// NewImage returns an image queued for upload (progress 0).
func NewImage(payload []byte) Image {
	return Image{ID: uuid.New(), Payload: payload, Progress: Progress(0)}
}

// NewVideo returns a video queued for upload (progress 0).
func NewVideo(location string) Video {
	return Video{ID: uuid.New(), Location: location, Progress: Progress(0)}
}

// NewFile returns a file queued for upload (progress 0).
func NewFile(location, mediaType string) File {
	return File{ID: uuid.New(), Location: location, MediaType: mediaType, Progress: Progress(0)}
}

// NewAudio returns an already resolved recording. A zero duration is
// treated as unknown.
func NewAudio(location string, duration time.Duration) Audio {
	a := Audio{Location: location}
	if duration > 0 {
		a.Duration = &duration
	}
	return a
}

// Progress returns a pointer to p, for use in progress fields.
func Progress(p float64) *float64 { return &p }

// Order returns a pointer to o, for use in order fields.
func Order(o int) *int { return &o }

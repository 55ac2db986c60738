// Package query derives list-row data from note collections: the latest
// note and its summary, relative timestamps, and the sort and filter rules
// of the cross-conversation list.
//
// Everything here is a pure function of its inputs. The current time is
// always passed in.
package query

import (
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/ordering"
)

// Placeholders shown for notes without text.
const (
	PhotoPlaceholder = "Photo"
	VideoPlaceholder = "Video"
	AudioPlaceholder = "Audio"
)

// LatestNote returns the note with the greatest CreatedAt. Among equal
// timestamps the one appearing last in notes wins.
func LatestNote(notes []models.Note) (models.Note, bool) {
	if len(notes) == 0 {
		return models.Note{}, false
	}
	best := 0
	for i := 1; i < len(notes); i++ {
		if !notes[i].CreatedAt.Before(notes[best].CreatedAt) {
			best = i
		}
	}
	return notes[best], true
}

// Summary returns the one-line preview of n: the first line of its trimmed
// text, or a placeholder for its first attachment. ok is false when the
// note has neither.
func Summary(n models.Note) (string, bool) {
	if text := strings.TrimSpace(n.Text); text != "" {
		line, _, _ := strings.Cut(text, "\n")
		return strings.TrimSpace(line), true
	}

	switch b := n.Bundle.(type) {
	case models.MediaBundle:
		seq := ordering.Merge(b)
		if len(seq) == 0 {
			return "", false
		}
		if seq[0].Kind == models.KindVideo {
			return VideoPlaceholder, true
		}
		return PhotoPlaceholder, true
	case models.FilesBundle:
		if len(b.Files) == 0 {
			return "", false
		}
		name := fileName(b.Files[0].Location)
		return name, name != ""
	case models.AudioBundle:
		if len(b.Items) == 0 {
			return "", false
		}
		return AudioPlaceholder, true
	}
	return "", false
}

// LatestSummary is Summary of LatestNote.
func LatestSummary(notes []models.Note) (string, bool) {
	n, ok := LatestNote(notes)
	if !ok {
		return "", false
	}
	return Summary(n)
}

// fileName returns the last path component of a location, which may be a
// URL or a plain path.
func fileName(location string) string {
	p := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

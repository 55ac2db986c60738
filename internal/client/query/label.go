package query

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// DefaultYesterday is the label for the previous calendar day.
const DefaultYesterday = "Yesterday"

// Labels formats relative timestamps.
type Labels struct {
	// Yesterday replaces the date for timestamps on the previous calendar
	// day. Empty means DefaultYesterday.
	Yesterday string
}

// Relative formats ts against now, in now's location: a lowercase clock
// time ("3:04pm") on the same calendar day, the yesterday token on the day
// before, otherwise month/day ("1/2").
func (l Labels) Relative(ts, now time.Time) string {
	ts = ts.In(now.Location())

	switch {
	case sameDay(ts, now):
		return strings.ToLower(ts.Format("3:04PM"))
	case sameDay(ts, now.AddDate(0, 0, -1)):
		if l.Yesterday == "" {
			return DefaultYesterday
		}
		return l.Yesterday
	default:
		return ts.Format("1/2")
	}
}

// Latest labels the latest note of notes.
func (l Labels) Latest(notes []models.Note, now time.Time) (string, bool) {
	n, ok := LatestNote(notes)
	if !ok {
		return "", false
	}
	return l.Relative(n.CreatedAt, now), true
}

// RelativeTimeLabel labels the latest note of notes with the default
// yesterday token.
func RelativeTimeLabel(notes []models.Note, now time.Time) (string, bool) {
	return Labels{}.Latest(notes, now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/google/uuid"
)

// Conversation pairs a contact with a snapshot of its notes.
type Conversation struct {
	Contact models.Contact
	Notes   []models.Note
}

// Derived holds what a list row needs from a note collection, apart from
// the time label, which depends on the current time.
type Derived struct {
	Latest     models.Note
	HasLatest  bool
	Summary    string
	HasSummary bool
}

// Derive computes the latest note and its summary.
func Derive(notes []models.Note) Derived {
	var d Derived
	d.Latest, d.HasLatest = LatestNote(notes)
	if d.HasLatest {
		d.Summary, d.HasSummary = Summary(d.Latest)
	}
	return d
}

// Row is one line of the cross-conversation list.
type Row struct {
	Contact    models.Contact
	Pinned     bool
	Summary    string
	HasSummary bool
	Label      string
	// LatestAt is zero when the conversation has no notes.
	LatestAt time.Time
}

// NewRow renders d for c at now.
func (l Labels) NewRow(c models.Contact, pinned bool, d Derived, now time.Time) Row {
	r := Row{Contact: c, Pinned: pinned, Summary: d.Summary, HasSummary: d.HasSummary}
	if d.HasLatest {
		r.LatestAt = d.Latest.CreatedAt
		r.Label = l.Relative(d.Latest.CreatedAt, now)
	}
	return r
}

// SortRows orders rows in place, stably: pinned first, then newest latest
// note first with empty conversations last, then registration order.
func SortRows(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		if c := b.LatestAt.Compare(a.LatestAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Contact.Seq, b.Contact.Seq)
	})
}

// SortConversations derives one row per conversation and sorts them.
func SortConversations(convs []Conversation, pinned map[uuid.UUID]bool, now time.Time) []Row {
	return Labels{}.SortConversations(convs, pinned, now)
}

// SortConversations is the package function with l's labels.
func (l Labels) SortConversations(convs []Conversation, pinned map[uuid.UUID]bool, now time.Time) []Row {
	rows := make([]Row, len(convs))
	for i, c := range convs {
		rows[i] = l.NewRow(c.Contact, pinned[c.Contact.ID], Derive(c.Notes), now)
	}
	SortRows(rows)
	return rows
}

// Filter selects conversations by company. The zero value matches
// everything.
type Filter struct {
	company string
}

// AllCompanies is the identity filter.
var AllCompanies = Filter{}

// FilterAllToken is the user-facing name of AllCompanies.
const FilterAllToken = "all"

// Company matches contacts whose trimmed company equals the trimmed name,
// case-sensitively. A blank name matches everything.
func Company(name string) Filter {
	return Filter{company: strings.TrimSpace(name)}
}

// ParseFilter maps user input to a filter; "all" and blank input select
// everything.
func ParseFilter(s string) Filter {
	if strings.TrimSpace(s) == FilterAllToken {
		return AllCompanies
	}
	return Company(s)
}

// All reports whether f is the identity filter.
func (f Filter) All() bool { return f.company == "" }

func (f Filter) String() string {
	if f.All() {
		return FilterAllToken
	}
	return f.company
}

// Match reports whether c passes f.
func (f Filter) Match(c models.Contact) bool {
	return f.All() || strings.TrimSpace(c.Company) == f.company
}

// FilterConversations keeps the conversations matching f, in order. The
// identity filter returns convs unchanged.
func FilterConversations(convs []Conversation, f Filter) []Conversation {
	if f.All() {
		return convs
	}
	out := make([]Conversation, 0, len(convs))
	for _, c := range convs {
		if f.Match(c.Contact) {
			out = append(out, c)
		}
	}
	return out
}

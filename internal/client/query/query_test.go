package query

import (
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 15, 45, 0, 0, time.UTC)

func TestLatestNote(t *testing.T) {
	old := models.NewTextNote(now.Add(-48*time.Hour), "old")
	recent := models.NewTextNote(now.Add(-10*time.Minute), "recent")
	tie := models.NewTextNote(now.Add(-10*time.Minute), "tie")

	_, ok := LatestNote(nil)
	assert.False(t, ok)

	got, ok := LatestNote([]models.Note{recent, old})
	require.True(t, ok)
	assert.Equal(t, recent.ID, got.ID)

	got, _ = LatestNote([]models.Note{old, recent, tie})
	assert.Equal(t, tie.ID, got.ID, "equal timestamps resolve to the last one")
	got, _ = LatestNote([]models.Note{old, tie, recent})
	assert.Equal(t, recent.ID, got.ID)
}

func TestSummary(t *testing.T) {
	img := models.NewImage([]byte{0xff})
	vid := models.NewVideo("file:///clip.mov")

	videoFirst := models.NewMediaBundle([]models.Image{img}, []models.Video{vid})
	videoFirst.Images[0].Order = models.Order(1)
	videoFirst.Videos[0].Order = models.Order(0)

	tests := []struct {
		name   string
		note   models.Note
		want   string
		wantOK bool
	}{
		{"first line of text", models.NewTextNote(now, "Hello\nworld"), "Hello", true},
		{"text is trimmed", models.NewTextNote(now, "  \n hi there \r\nmore"), "hi there", true},
		{"crlf", models.NewTextNote(now, "one\r\ntwo"), "one", true},
		{"image only", models.NewMediaNote(now, "", []models.Image{img}, nil), PhotoPlaceholder, true},
		{"video only", models.NewMediaNote(now, "", nil, []models.Video{vid}), VideoPlaceholder, true},
		{"first in display order", models.NewNote(now, "", videoFirst), VideoPlaceholder, true},
		{"blank text falls back", models.NewMediaNote(now, "   ", []models.Image{img}, nil), PhotoPlaceholder, true},
		{"text wins over media", models.NewMediaNote(now, "caption", []models.Image{img}, nil), "caption", true},
		{"audio", models.NewAudioNote(now, models.NewAudio("file:///memo.m4a", 0)), AudioPlaceholder, true},
		{"file url", models.NewFilesNote(now, "", []models.File{models.NewFile("file:///tmp/docs/Q3%20report.pdf", "")}), "Q3 report.pdf", true},
		{"plain path", models.NewFilesNote(now, "", []models.File{models.NewFile("/var/data/invoice.xlsx", "")}), "invoice.xlsx", true},
		{"trailing slash", models.NewFilesNote(now, "", []models.File{models.NewFile("https://example.com/files/", "")}), "files", true},
		{"empty note", models.NewTextNote(now, ""), "", false},
		{"empty media bundle", models.Note{Bundle: models.MediaBundle{}}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Summary(tc.note)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLatestSummary(t *testing.T) {
	notes := []models.Note{
		models.NewTextNote(now.Add(-time.Hour), "older"),
		models.NewMediaNote(now, "", []models.Image{models.NewImage(nil)}, nil),
	}
	got, ok := LatestSummary(notes)
	require.True(t, ok)
	assert.Equal(t, PhotoPlaceholder, got)

	_, ok = LatestSummary(nil)
	assert.False(t, ok)
}

func TestRelative(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day afternoon", time.Date(2024, 5, 10, 15, 35, 0, 0, time.UTC), "3:35pm"},
		{"same day morning", time.Date(2024, 5, 10, 9, 5, 0, 0, time.UTC), "9:05am"},
		{"midnight", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), "12:00am"},
		{"yesterday late", time.Date(2024, 5, 9, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"yesterday early", time.Date(2024, 5, 9, 0, 1, 0, 0, time.UTC), "Yesterday"},
		{"two days ago", time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC), "5/8"},
		{"last year", time.Date(2023, 12, 25, 12, 0, 0, 0, time.UTC), "12/25"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Labels{}.Relative(tc.ts, now))
		})
	}
}

func TestRelative_CustomTokenAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	localNow := time.Date(2024, 5, 10, 1, 0, 0, 0, loc)

	// 23:30 UTC on the 9th is 02:30 on the 10th in UTC+3.
	ts := time.Date(2024, 5, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2:30am", Labels{}.Relative(ts, localNow.Add(2*time.Hour)))

	l := Labels{Yesterday: "yday"}
	assert.Equal(t, "yday", l.Relative(time.Date(2024, 5, 9, 10, 0, 0, 0, loc), localNow))
}

func TestRelativeTimeLabel(t *testing.T) {
	notes := []models.Note{
		models.NewTextNote(now.Add(-48*time.Hour), "a"),
		models.NewTextNote(now.Add(-10*time.Minute), "b"),
	}
	got, ok := RelativeTimeLabel(notes, now)
	require.True(t, ok)
	assert.Equal(t, "3:35pm", got)

	_, ok = RelativeTimeLabel(nil, now)
	assert.False(t, ok)
}

func contact(seq int, company string) models.Contact {
	return models.Contact{ID: uuid.New(), Name: "c", Company: company, Seq: seq}
}

func names(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Contact.Seq
	}
	return out
}

func TestSortConversations(t *testing.T) {
	a := Conversation{Contact: contact(0, ""), Notes: []models.Note{models.NewTextNote(now.Add(-time.Hour), "a")}}
	b := Conversation{Contact: contact(1, ""), Notes: []models.Note{models.NewTextNote(now.Add(-time.Minute), "b")}}
	c := Conversation{Contact: contact(2, "")}
	d := Conversation{Contact: contact(3, ""), Notes: []models.Note{models.NewTextNote(now.Add(-72*time.Hour), "d")}}
	e := Conversation{Contact: contact(4, "")}

	rows := SortConversations([]Conversation{a, b, c, d, e}, map[uuid.UUID]bool{d.Contact.ID: true}, now)

	assert.Equal(t, []int{3, 1, 0, 2, 4}, names(rows))
	assert.True(t, rows[0].Pinned)
	assert.Equal(t, "5/7", rows[0].Label)
	assert.Equal(t, "b", rows[1].Summary)
	assert.False(t, rows[3].HasSummary)
	assert.True(t, rows[3].LatestAt.IsZero())
	assert.Empty(t, rows[3].Label)
}

func TestSortConversations_StableForTies(t *testing.T) {
	ts := now.Add(-time.Hour)
	var convs []Conversation
	for i := 0; i < 6; i++ {
		convs = append(convs, Conversation{
			Contact: contact(i, ""),
			Notes:   []models.Note{models.NewTextNote(ts, "same")},
		})
	}
	// Registration order, not slice order, breaks ties.
	convs[0], convs[5] = convs[5], convs[0]

	for range 10 {
		rows := SortConversations(convs, nil, now)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, names(rows))
	}
}

func TestSortRows_ExtremeSeq(t *testing.T) {
	rows := []Row{
		{Contact: contact(math.MaxInt-1, "")},
		{Contact: contact(math.MinInt+1, "")},
		{Contact: contact(0, "")},
	}
	SortRows(rows)
	assert.Equal(t, []int{math.MinInt + 1, 0, math.MaxInt - 1}, names(rows))
}

func TestFilter(t *testing.T) {
	acme := Conversation{Contact: contact(0, "Acme")}
	spaced := Conversation{Contact: contact(1, "  Acme ")}
	lower := Conversation{Contact: contact(2, "acme")}
	none := Conversation{Contact: contact(3, "")}
	all := []Conversation{acme, spaced, lower, none}

	assert.Equal(t, all, FilterConversations(all, AllCompanies))
	assert.Equal(t, all, FilterConversations(all, ParseFilter("all")))
	assert.Equal(t, all, FilterConversations(all, ParseFilter("  ")))

	got := FilterConversations(all, ParseFilter(" Acme"))
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Contact.Seq)
	assert.Equal(t, 1, got[1].Contact.Seq)

	assert.Empty(t, FilterConversations(all, Company("ACME")))
	assert.Equal(t, "all", AllCompanies.String())
	assert.Equal(t, "Acme", Company(" Acme ").String())
}

func TestRowCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewRowCache(2, metrics.New(reg))
	require.NoError(t, err)

	id := uuid.New()
	d := Derive([]models.Note{models.NewTextNote(now, "hi")})

	_, ok := c.Get(id, 1)
	assert.False(t, ok)

	c.Put(id, 1, d)
	got, ok := c.Get(id, 1)
	require.True(t, ok)
	assert.Equal(t, "hi", got.Summary)

	_, ok = c.Get(id, 2)
	assert.False(t, ok, "stale version is a miss")

	c.Put(uuid.New(), 1, d)
	c.Put(uuid.New(), 1, d)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(id, 1)
	assert.False(t, ok, "least recently used entry is evicted")

	c.Remove(id)
	assert.Equal(t, 2, c.Len())
}

func TestNewRowCache_RejectsBadSize(t *testing.T) {
	_, err := NewRowCache(0, nil)
	require.Error(t, err)
}

package store

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newStore() *Store {
	return New(nil, metrics.New(prometheus.NewRegistry()))
}

func TestGet_UnknownConversationIsEmpty(t *testing.T) {
	s := newStore()
	assert.Empty(t, s.Get(uuid.New()))
	assert.Zero(t, s.Version(uuid.New()))
}

func TestAppendAndReplace(t *testing.T) {
	s := newStore()
	id := uuid.New()

	a := models.NewTextNote(t0, "a")
	b := models.NewTextNote(t0.Add(time.Minute), "b")
	s.Append(id, a)
	s.Append(id, b)

	require.Empty(t, cmp.Diff([]models.Note{a, b}, s.Get(id)))

	c := models.NewTextNote(t0, "c")
	s.Replace(id, []models.Note{c})
	require.Empty(t, cmp.Diff([]models.Note{c}, s.Get(id)))
	assert.ElementsMatch(t, []uuid.UUID{id}, s.Conversations())
}

func TestGet_ReturnsIndependentSnapshot(t *testing.T) {
	s := newStore()
	id := uuid.New()
	s.Append(id, models.NewTextNote(t0, "original"))

	snap := s.Get(id)
	snap[0].Text = "mutated"
	snap = append(snap, models.NewTextNote(t0, "extra"))

	got := s.Get(id)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Text)
}

func TestReplace_CopiesCallerSlice(t *testing.T) {
	s := newStore()
	id := uuid.New()
	notes := []models.Note{models.NewTextNote(t0, "x")}

	s.Replace(id, notes)
	notes[0].Text = "changed by caller"

	assert.Equal(t, "x", s.Get(id)[0].Text)
}

func TestUpdate_ErrorLeavesStateAndSkipsNotify(t *testing.T) {
	s := newStore()
	id := uuid.New()
	s.Append(id, models.NewTextNote(t0, "keep"))
	v := s.Version(id)

	var events atomic.Int32
	s.Subscribe(id, func(Event) { events.Add(1) })

	err := s.Update(id, func(notes []models.Note) ([]models.Note, error) {
		notes[0].Text = "scribbled"
		return nil, common.ErrNoteNotFound
	})
	require.ErrorIs(t, err, common.ErrNoteNotFound)

	assert.Equal(t, "keep", s.Get(id)[0].Text)
	assert.Equal(t, v, s.Version(id))
	assert.Zero(t, events.Load())
}

func TestNotify_ExactlyOncePerWriteAndScoped(t *testing.T) {
	s := newStore()
	a, b := uuid.New(), uuid.New()

	var mu sync.Mutex
	var gotA, gotAll []Event
	s.Subscribe(a, func(ev Event) { mu.Lock(); gotA = append(gotA, ev); mu.Unlock() })
	s.SubscribeAll(func(ev Event) { mu.Lock(); gotAll = append(gotAll, ev); mu.Unlock() })

	s.Append(a, models.NewTextNote(t0, "1"))
	s.Append(b, models.NewTextNote(t0, "2"))
	s.Replace(a, nil)

	require.Len(t, gotA, 2)
	require.Len(t, gotAll, 3)
	assert.Equal(t, a, gotA[0].ConversationID)
	assert.Less(t, gotA[0].Version, gotA[1].Version)
	assert.Equal(t, b, gotAll[1].ConversationID)
}

func TestObserver_CanReadAndWriteStore(t *testing.T) {
	s := newStore()
	id := uuid.New()

	var seen [][]models.Note
	var sid SubscriptionID
	sid = s.Subscribe(id, func(ev Event) {
		seen = append(seen, s.Get(ev.ConversationID))
		if len(seen) == 1 {
			s.Append(id, models.NewTextNote(t0, "from observer"))
		}
	})
	defer s.Unsubscribe(sid)

	s.Append(id, models.NewTextNote(t0, "first"))

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Len(t, seen[1], 2)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	s := newStore()
	id := uuid.New()

	var n atomic.Int32
	sid := s.Subscribe(id, func(Event) { n.Add(1) })
	s.Append(id, models.NewTextNote(t0, "a"))
	s.Unsubscribe(sid)
	s.Unsubscribe(sid)
	s.Append(id, models.NewTextNote(t0, "b"))

	assert.Equal(t, int32(1), n.Load())
}

func TestDrop(t *testing.T) {
	s := newStore()
	id := uuid.New()
	s.Append(id, models.NewTextNote(t0, "a"))
	before := s.Version(id)

	var events []Event
	s.SubscribeAll(func(ev Event) { events = append(events, ev) })

	s.Drop(id)
	s.Drop(id)

	assert.Empty(t, s.Get(id))
	assert.Empty(t, s.Conversations())
	require.Len(t, events, 1)
	assert.Greater(t, events[0].Version, before)

	s.Append(id, models.NewTextNote(t0, "again"))
	assert.Greater(t, s.Version(id), events[0].Version, "versions are never reused")
}

// Concurrent read-modify-write cycles on one conversation must not lose
// updates and must emit one event per write.
func TestUpdate_ConcurrentWritersDoNotClobber(t *testing.T) {
	s := newStore()
	id := uuid.New()

	var events atomic.Int32
	s.Subscribe(id, func(Event) { events.Add(1) })

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				err := s.Update(id, func(notes []models.Note) ([]models.Note, error) {
					return append(notes, models.NewTextNote(t0, "n")), nil
				})
				assert.NoError(t, err)
				_ = s.Get(id)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.Get(id), writers*perWriter)
	assert.Equal(t, int32(writers*perWriter), events.Load())
}

func TestUpdate_PassesErrorsThrough(t *testing.T) {
	s := newStore()
	boom := errors.New("boom")
	err := s.Update(uuid.New(), func([]models.Note) ([]models.Note, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Conversations(), "failed update must not create the conversation")
}

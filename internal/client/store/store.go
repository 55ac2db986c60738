// Package store is the authoritative in-memory registry of conversations
// and their ordered note lists.
//
// # Consistency
//
// All writes go through one exclusive lock, so writes never interleave and
// readers always see a complete list. Update is the single read-modify-write
// path: the callback runs inside the critical section and its result is
// installed atomically. Replace and Append are built on it.
//
// # Notification
//
// Every successful write emits exactly one Event to the observers of that
// conversation and to the global observers. Events carry no delta; an
// observer re-reads Get, so delivery order between concurrent writers does
// not matter. Observers run on the writer's goroutine after the lock is
// released and may read or write the store themselves.
//
// # Snapshots
//
// Get returns a fresh slice. Notes are values whose attachment slices are
// never written in place (see package models), so a snapshot stays valid
// after later writes.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/google/uuid"
)

// Event tells observers that a conversation changed. Versions come from a
// store-wide counter, so they grow with every write to a conversation and
// are never reused, even after Drop.
type Event struct {
	ConversationID uuid.UUID
	Version        uint64
}

// Observer receives change events.
type Observer func(Event)

// SubscriptionID identifies a registered observer.
type SubscriptionID uint64

type conversation struct {
	notes   []models.Note
	version uint64
}

type subscription struct {
	conversationID uuid.UUID
	all            bool
	fn             Observer
}

type Store struct {
	mu    sync.RWMutex
	convs map[uuid.UUID]*conversation
	seq   uint64

	subMu   sync.Mutex
	nextSub SubscriptionID
	subs    map[SubscriptionID]subscription

	logger  logging.Logger
	metrics *metrics.Metrics
}

// New returns an empty store. m may be nil.
func New(logger logging.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		convs:   make(map[uuid.UUID]*conversation),
		subs:    make(map[SubscriptionID]subscription),
		logger:  logger,
		metrics: m,
	}
}

// Get returns the notes of a conversation in order, or nil when the
// conversation is unknown.
func (s *Store) Get(id uuid.UUID) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.convs[id]
	if !ok {
		return nil
	}
	return slices.Clone(c.notes)
}

// Version returns the version of the last write to a conversation, or 0
// when it is unknown.
func (s *Store) Version(id uuid.UUID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.convs[id]; ok {
		return c.version
	}
	return 0
}

// Snapshot returns the notes and version of a conversation read together.
func (s *Store) Snapshot(id uuid.UUID) ([]models.Note, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.convs[id]
	if !ok {
		return nil, 0
	}
	return slices.Clone(c.notes), c.version
}

// Conversations lists the ids that have been written at least once and not
// dropped, in no particular order.
func (s *Store) Conversations() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.convs))
	for id := range s.convs {
		ids = append(ids, id)
	}
	return ids
}

// Update runs fn on a copy of the conversation's notes while holding the
// write lock and installs the result. When fn returns an error nothing is
// written, no event is emitted and the error is returned unchanged.
//
// fn must not call back into the store.
func (s *Store) Update(id uuid.UUID, fn func(notes []models.Note) ([]models.Note, error)) error {
	return s.write(id, "update", fn)
}

// Replace installs notes as the full list of a conversation.
func (s *Store) Replace(id uuid.UUID, notes []models.Note) {
	notes = slices.Clone(notes)
	_ = s.write(id, "replace", func([]models.Note) ([]models.Note, error) {
		return notes, nil
	})
}

// Append adds note at the end of a conversation.
func (s *Store) Append(id uuid.UUID, note models.Note) {
	_ = s.write(id, "append", func(notes []models.Note) ([]models.Note, error) {
		return append(notes, note), nil
	})
}

// Drop forgets a conversation. Observers are notified once if it existed.
func (s *Store) Drop(id uuid.UUID) {
	s.mu.Lock()
	if _, ok := s.convs[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.convs, id)
	s.seq++
	ev := Event{ConversationID: id, Version: s.seq}
	s.mu.Unlock()

	s.metrics.StoreWrite("drop")
	s.notify(ev)
}

func (s *Store) write(id uuid.UUID, op string, fn func([]models.Note) ([]models.Note, error)) error {
	s.mu.Lock()
	c, ok := s.convs[id]
	var current []models.Note
	if ok {
		current = slices.Clone(c.notes)
	}

	next, err := fn(current)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if !ok {
		c = &conversation{}
		s.convs[id] = c
	}
	s.seq++
	c.notes = next
	c.version = s.seq
	ev := Event{ConversationID: id, Version: c.version}
	s.mu.Unlock()

	s.metrics.StoreWrite(op)
	s.logger.Debug(context.Background(), "conversation written",
		"conversation_id", id, "op", op, "version", ev.Version, "notes", len(next))
	s.notify(ev)
	return nil
}

// Subscribe registers fn for events of one conversation.
func (s *Store) Subscribe(id uuid.UUID, fn Observer) SubscriptionID {
	return s.subscribe(subscription{conversationID: id, fn: fn})
}

// SubscribeAll registers fn for events of every conversation.
func (s *Store) SubscribeAll(fn Observer) SubscriptionID {
	return s.subscribe(subscription{all: true, fn: fn})
}

func (s *Store) subscribe(sub subscription) SubscriptionID {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	s.subs[s.nextSub] = sub
	s.metrics.SubscriberAdded()
	return s.nextSub
}

// Unsubscribe removes an observer. Unknown ids are ignored. An event that
// was already being delivered may still reach the observer.
func (s *Store) Unsubscribe(sid SubscriptionID) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if _, ok := s.subs[sid]; !ok {
		return
	}
	delete(s.subs, sid)
	s.metrics.SubscriberRemoved()
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	targets := make([]subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.all || sub.conversationID == ev.ConversationID {
			targets = append(targets, sub)
		}
	}
	s.subMu.Unlock()

	for _, sub := range targets {
		sub.fn(ev)
	}
	s.metrics.Notified(len(targets))
}

// Package upload simulates per-attachment uploads.
//
// Every image, video and file that still has a progress value gets its own
// job. A job sleeps for its kind's interval, then writes the next progress
// value through the store's Update path, until the final step clears
// progress to nil. Jobs address their attachment by note id, kind and
// attachment id, so reordering or deleting siblings never redirects a tick.
//
// Jobs can be cancelled when their note or attachment is deleted. A tick
// that races past cancellation, or whose target is gone for any other
// reason, is dropped silently and ends the job.
package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/google/uuid"
)

// Mutator is the part of the conversation store the simulator needs.
// *store.Store satisfies it.
type Mutator interface {
	Get(id uuid.UUID) []models.Note
	Update(id uuid.UUID, fn func(notes []models.Note) ([]models.Note, error)) error
}

type target struct {
	conversationID uuid.UUID
	noteID         uuid.UUID
	attachmentID   uuid.UUID
	kind           models.Kind
	from           int
}

type job struct {
	target
	cancel context.CancelFunc
}

type Simulator struct {
	store     Mutator
	schedules map[models.Kind]Schedule
	logger    logging.Logger
	metrics   *metrics.Metrics

	mu     sync.Mutex
	jobs   map[uuid.UUID]*job
	closed bool
	wg     sync.WaitGroup
}

// NewSimulator returns a simulator writing to store. Kinds missing from
// schedules use DefaultSchedules.
func NewSimulator(store Mutator, schedules map[models.Kind]Schedule, logger logging.Logger, m *metrics.Metrics) *Simulator {
	if logger == nil {
		logger = logging.Nop()
	}
	plan := DefaultSchedules()
	for k, s := range schedules {
		if s.Steps >= 2 && s.Interval > 0 {
			plan[k] = s
		}
	}
	return &Simulator{
		store:     store,
		schedules: plan,
		logger:    logger,
		metrics:   m,
		jobs:      make(map[uuid.UUID]*job),
	}
}

// Start launches one job per attachment of the note that is still
// uploading and has no running job. It returns the number of jobs started.
// Jobs stop when ctx is done. A missing note is a no-op.
func (s *Simulator) Start(ctx context.Context, conversationID, noteID uuid.UUID) int {
	notes := s.store.Get(conversationID)
	i := models.IndexOf(notes, noteID)
	if i < 0 {
		s.logger.Debug(ctx, "upload start skipped, note missing",
			"conversation_id", conversationID, "note_id", noteID)
		s.metrics.Dropped(metrics.ReasonNoteMissing)
		return 0
	}

	targets := s.targets(conversationID, notes[i])

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}

	started := 0
	for _, t := range targets {
		if _, running := s.jobs[t.attachmentID]; running {
			continue
		}
		jobCtx, cancel := context.WithCancel(ctx)
		j := &job{target: t, cancel: cancel}
		s.jobs[t.attachmentID] = j
		s.wg.Add(1)
		s.metrics.UploadStarted()
		go s.run(jobCtx, j)
		started++
	}
	return started
}

func (s *Simulator) targets(conversationID uuid.UUID, n models.Note) []target {
	var out []target
	add := func(kind models.Kind, id uuid.UUID, p *float64) {
		if p == nil {
			return
		}
		out = append(out, target{
			conversationID: conversationID,
			noteID:         n.ID,
			attachmentID:   id,
			kind:           kind,
			from:           stepOf(*p, s.schedules[kind].Steps),
		})
	}

	switch b := n.Bundle.(type) {
	case models.MediaBundle:
		for _, img := range b.Images {
			add(models.KindImage, img.ID, img.Progress)
		}
		for _, v := range b.Videos {
			add(models.KindVideo, v.ID, v.Progress)
		}
	case models.FilesBundle:
		for _, f := range b.Files {
			add(models.KindFile, f.ID, f.Progress)
		}
	}
	return out
}

func (s *Simulator) run(ctx context.Context, j *job) {
	defer s.wg.Done()
	defer s.finish(j)

	sched := s.schedules[j.kind]
	log := s.logger.With("conversation_id", j.conversationID, "note_id", j.noteID,
		"kind", j.kind, "attachment_id", j.attachmentID)

	ticker := time.NewTicker(sched.Interval)
	defer ticker.Stop()

	for step := j.from + 1; step < sched.Steps; step++ {
		select {
		case <-ctx.Done():
			log.Debug(ctx, "upload cancelled", "step", step)
			s.metrics.Dropped(metrics.ReasonCancelled)
			return
		case <-ticker.C:
		}

		p := ProgressAt(step, sched.Steps)
		if err := s.apply(j.target, p); err != nil {
			reason := metrics.ReasonAttachmentMissing
			if errors.Is(err, common.ErrNoteNotFound) {
				reason = metrics.ReasonNoteMissing
			}
			log.Debug(ctx, "upload tick dropped", "step", step, "reason", reason)
			s.metrics.Dropped(reason)
			return
		}
		s.metrics.UploadTick(string(j.kind))
	}

	s.metrics.UploadCompleted(string(j.kind))
	log.Debug(ctx, "upload finished")
}

func (s *Simulator) apply(t target, p *float64) error {
	return s.store.Update(t.conversationID, func(notes []models.Note) ([]models.Note, error) {
		i := models.IndexOf(notes, t.noteID)
		if i < 0 {
			return nil, common.ErrNoteNotFound
		}
		n, err := models.WithProgress(notes[i], t.kind, t.attachmentID, p)
		if err != nil {
			return nil, err
		}
		notes[i] = n
		return notes, nil
	})
}

func (s *Simulator) finish(j *job) {
	s.mu.Lock()
	if s.jobs[j.attachmentID] == j {
		delete(s.jobs, j.attachmentID)
	}
	s.mu.Unlock()
	j.cancel()
	s.metrics.UploadFinished()
}

// CancelNote stops every job of a note. It returns the number of jobs
// signalled.
func (s *Simulator) CancelNote(noteID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, j := range s.jobs {
		if j.noteID == noteID {
			j.cancel()
			n++
		}
	}
	return n
}

// CancelAttachment stops the job of one attachment, if any.
func (s *Simulator) CancelAttachment(attachmentID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[attachmentID]
	if ok {
		j.cancel()
	}
	return ok
}

// Running returns the ids of attachments with a live job.
func (s *Simulator) Running() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Wait blocks until every started job has ended.
func (s *Simulator) Wait() {
	s.wg.Wait()
}

// Close cancels all jobs and waits for them. Later Starts do nothing.
func (s *Simulator) Close() {
	s.mu.Lock()
	s.closed = true
	for _, j := range s.jobs {
		j.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Package metrics exposes Prometheus collectors for the note engine.
//
// Collectors are registered on the Registerer passed to New, so tests and
// multiple engines in one process never collide on the default registry.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a mutation was dropped instead of applied.
const (
	ReasonNoteMissing       = "note_missing"
	ReasonAttachmentMissing = "attachment_missing"
	ReasonCancelled         = "cancelled"
)

type Metrics struct {
	// storeWrites counts successful writes per operation (replace, update, drop).
	storeWrites *prometheus.CounterVec

	// notifications counts change events delivered to observers.
	notifications prometheus.Counter

	// subscribers is the current number of registered observers.
	subscribers prometheus.Gauge

	// uploadTicks counts applied upload progress writes per attachment kind.
	uploadTicks *prometheus.CounterVec

	// uploadsCompleted counts attachments whose progress reached nil.
	uploadsCompleted *prometheus.CounterVec

	// uploadsInFlight is the number of running upload jobs.
	uploadsInFlight prometheus.Gauge

	// droppedMutations counts no-op mutations by reason.
	droppedMutations *prometheus.CounterVec

	// rowCacheHits and rowCacheMisses track derived list-row lookups.
	rowCacheHits   prometheus.Counter
	rowCacheMisses prometheus.Counter
}

// New registers the engine collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		storeWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_store_writes_total",
				Help: "Conversation store writes by operation",
			},
			[]string{"op"},
		),
		notifications: f.NewCounter(prometheus.CounterOpts{
			Name: "notes_store_notifications_total",
			Help: "Change events delivered to store observers",
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "notes_store_subscribers",
			Help: "Registered store observers",
		}),
		uploadTicks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_upload_ticks_total",
				Help: "Applied upload progress ticks by attachment kind",
			},
			[]string{"kind"},
		),
		uploadsCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_uploads_completed_total",
				Help: "Attachments that finished uploading",
			},
			[]string{"kind"},
		),
		uploadsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "notes_uploads_in_flight",
			Help: "Running upload jobs",
		}),
		droppedMutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_dropped_mutations_total",
				Help: "Mutations absorbed as no-ops because their target was gone",
			},
			[]string{"reason"},
		),
		rowCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "notes_row_cache_hits_total",
			Help: "List rows served from the derived row cache",
		}),
		rowCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "notes_row_cache_misses_total",
			Help: "List rows recomputed because the cache was cold or stale",
		}),
	}
}

func (m *Metrics) StoreWrite(op string) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) Notified(n int) {
	if m == nil {
		return
	}
	m.notifications.Add(float64(n))
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

func (m *Metrics) UploadTick(kind string) {
	if m == nil {
		return
	}
	m.uploadTicks.WithLabelValues(kind).Inc()
}

func (m *Metrics) UploadCompleted(kind string) {
	if m == nil {
		return
	}
	m.uploadsCompleted.WithLabelValues(kind).Inc()
}

func (m *Metrics) UploadStarted() {
	if m == nil {
		return
	}
	m.uploadsInFlight.Inc()
}

func (m *Metrics) UploadFinished() {
	if m == nil {
		return
	}
	m.uploadsInFlight.Dec()
}

func (m *Metrics) Dropped(reason string) {
	if m == nil {
		return
	}
	m.droppedMutations.WithLabelValues(reason).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.rowCacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.rowCacheMisses.Inc()
}

// UploadTicks returns the tick counter of one kind, for inspection.
func (m *Metrics) UploadTicks(kind string) prometheus.Counter {
	return m.uploadTicks.WithLabelValues(kind)
}

// DroppedMutations returns the dropped-mutation counter of one reason, for
// inspection.
func (m *Metrics) DroppedMutations(reason string) prometheus.Counter {
	return m.droppedMutations.WithLabelValues(reason)
}

// RowCacheHits returns the row cache hit counter, for inspection.
func (m *Metrics) RowCacheHits() prometheus.Counter {
	return m.rowCacheHits
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/query"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/client/store"
	"github.com/dmitrijs2005/gophnotes/internal/client/upload"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	contactService services.ContactService
	noteService    services.NoteService
	uploads        *upload.Simulator
	labels         query.Labels

	in       io.Reader
	reader   *bufio.Reader
	out      io.Writer
	clock    *Clock
	location *time.Location

	filter  query.Filter
	rows    []query.Row
	current *models.Contact

	feedMu    sync.Mutex
	feedSub   store.SubscriptionID
	feedOn    bool
	// uploading maps notes with pending uploads to their conversation.
	uploading map[uuid.UUID]uuid.UUID
}

// NewApp wires the engine for c: store, upload simulator, services and
// row cache. Collectors are registered on reg.
func NewApp(c *config.Config, logger logging.Logger, reg prometheus.Registerer) (*App, error) {
	return newApp(c, logger, reg, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, logger logging.Logger, reg prometheus.Registerer, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	m := metrics.New(reg)

	st := store.New(logger.With("component", "store"), m)
	sim := upload.NewSimulator(st,
		upload.Schedules(c.ImageTickInterval, c.VideoTickInterval, c.FileTickInterval),
		logger.With("component", "upload"), m)

	cache, err := query.NewRowCache(c.SummaryCacheSize, m)
	if err != nil {
		return nil, err
	}
	labels := query.Labels{Yesterday: c.YesterdayLabel}

	ns := services.NewNoteService(st, sim, logger.With("component", "notes"), m)
	cs := services.NewContactService(contacts.NewMemoryRepository(), st, ns, cache, labels)

	return &App{
		config:         c,
		logger:         logger,
		contactService: cs,
		noteService:    ns,
		uploads:        sim,
		labels:         labels,
		in:             in,
		reader:         bufio.NewReader(in),
		out:            out,
		clock:          NewClock(time.Now),
		location:       time.Local,
		filter:         query.AllCompanies,
		uploading:      make(map[uuid.UUID]uuid.UUID),
	}, nil
}

// Run starts the REPL and blocks until the user exits, input ends or ctx is
// done. Upload jobs are cancelled on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if f, ok := a.in.(*os.File); ok && isTerminal(int(f.Fd())) {
		a.startFeed()
	}

	printlnFn("Welcome to notes CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops the upload feed and all upload jobs.
func (a *App) Close() {
	a.stopFeed()
	a.uploads.Close()
}

func (a *App) getStatus() string {
	var parts []string
	if a.current != nil {
		parts = append(parts, a.current.Name)
	}
	if !a.filter.All() {
		parts = append(parts, "filter:"+a.filter.String())
	}
	if a.clock.Pinned() {
		parts = append(parts, "now:"+a.clock.Now().Format("2006-01-02 15:04"))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

// startFeed prints a line whenever a note finishes uploading.
func (a *App) startFeed() {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()
	if a.feedOn {
		return
	}
	a.feedSub = a.noteService.SubscribeAll(a.onStoreChange)
	a.feedOn = true
}

func (a *App) stopFeed() {
	a.feedMu.Lock()
	on, sub := a.feedOn, a.feedSub
	a.feedOn = false
	a.feedMu.Unlock()
	if on {
		a.noteService.Unsubscribe(sub)
	}
}

func (a *App) onStoreChange(ev store.Event) {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()

	notes := a.noteService.GetNotes(ev.ConversationID)
	present := make(map[uuid.UUID]bool, len(notes))
	for _, n := range notes {
		present[n.ID] = true
		_, tracked := a.uploading[n.ID]
		switch {
		case n.Uploading():
			a.uploading[n.ID] = ev.ConversationID
		case tracked:
			delete(a.uploading, n.ID)
			printlnFn(fmt.Sprintf("upload finished: %s", describeNote(n)))
		}
	}

	// Notes deleted mid-upload never finish.
	for id, conv := range a.uploading {
		if conv == ev.ConversationID && !present[id] {
			delete(a.uploading, id)
		}
	}
}

// pendingFeed returns the number of notes the feed is waiting on.
func (a *App) pendingFeed() int {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()
	return len(a.uploading)
}

func (a *App) now() time.Time {
	return a.clock.Now()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/ordering"
	"github.com/dmitrijs2005/gophnotes/internal/client/query"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

var errNoConversation = errors.New("no conversation open, use 'open <n>'")

func (a *App) conversation() (models.Contact, error) {
	if a.current == nil {
		return models.Contact{}, errNoConversation
	}
	return *a.current, nil
}

func (a *App) Note(ctx context.Context, args []string) error {
	c, err := a.conversation()
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	if text == "" {
		if text, err = GetMultiline(a.reader, "- Enter note text (double Enter to finish):", a.out); err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		return common.ErrEmptyNote
	}
	a.noteService.AppendNote(ctx, c.ID, models.NewTextNote(a.now(), text))
	return nil
}

func (a *App) Photo(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: photo <path>...")
	}
	images := make([]models.Image, 0, len(args))
	for _, p := range args {
		payload, err := readFile(p)
		if err != nil {
			return fmt.Errorf("error reading photo: %w", err)
		}
		images = append(images, models.NewImage(payload))
	}
	return a.post(ctx, models.NewMediaNote(a.now(), "", images, nil))
}

func (a *App) Video(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: video <uri>...")
	}
	videos := make([]models.Video, 0, len(args))
	for _, u := range args {
		videos = append(videos, models.NewVideo(u))
	}
	return a.post(ctx, models.NewMediaNote(a.now(), "", nil, videos))
}

func (a *App) File(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: file <uri>...")
	}
	files := make([]models.File, 0, len(args))
	for _, u := range args {
		files = append(files, models.NewFile(u, mime.TypeByExtension(path.Ext(u))))
	}
	return a.post(ctx, models.NewFilesNote(a.now(), "", files))
}

func (a *App) Audio(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: audio <uri> <seconds>")
	}
	secs, err := strconv.ParseFloat(args[1], 64)
	if err != nil || secs < 0 {
		return fmt.Errorf("invalid duration %q", args[1])
	}
	d := time.Duration(secs * float64(time.Second))
	return a.post(ctx, models.NewAudioNote(a.now(), models.NewAudio(args[0], d)))
}

func (a *App) post(ctx context.Context, n models.Note) error {
	c, err := a.conversation()
	if err != nil {
		return err
	}
	if started := a.noteService.Post(ctx, c.ID, n); started > 0 {
		printlnFn(fmt.Sprintf("Uploading %d attachment(s)", started))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	c, err := a.conversation()
	if err != nil {
		return err
	}
	notes := a.noteService.GetNotes(c.ID)
	printlnFn(fmt.Sprintf("== %s (%d notes)", c.Name, len(notes)))

	now := a.now()
	for i, n := range notes {
		printlnFn(fmt.Sprintf("[%d] %s %s", i+1, a.labels.Relative(n.CreatedAt, now), n.Text))
		for _, line := range describeBundle(n.Bundle) {
			printlnFn("     " + line)
		}
	}
	return nil
}

func (a *App) noteAt(args []string) (models.Contact, models.Note, error) {
	c, err := a.conversation()
	if err != nil {
		return c, models.Note{}, err
	}
	if len(args) == 0 {
		return c, models.Note{}, errors.New("expected a note number")
	}
	notes := a.noteService.GetNotes(c.ID)
	i, err := parsePosition(args[0], len(notes))
	if err != nil {
		return c, models.Note{}, err
	}
	return c, notes[i], nil
}

func (a *App) RemoveNote(ctx context.Context, args []string) error {
	c, n, err := a.noteAt(args)
	if err != nil {
		return err
	}
	if !a.noteService.DeleteNote(ctx, c.ID, n.ID) {
		printlnFn("Note already gone.")
	}
	return nil
}

// RemoveAttachment deletes one attachment and removes the note when nothing
// is left in it.
func (a *App) RemoveAttachment(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: rmatt <n> <image|video|file|audio> <i>")
	}
	c, n, err := a.noteAt(args)
	if err != nil {
		return err
	}
	kind, err := models.ParseKind(args[1])
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%q is not a number", args[2])
	}

	updated, ok := a.noteService.DeleteAttachment(ctx, c.ID, n.ID, kind, idx-1)
	if !ok {
		printlnFn("Nothing to delete.")
		return nil
	}
	if updated.IsEmpty() {
		a.noteService.DeleteNote(ctx, c.ID, n.ID)
		printlnFn("Note removed.")
	}
	return nil
}

func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: move <n> <from> <to>")
	}
	c, n, err := a.noteAt(args)
	if err != nil {
		return err
	}
	from, err1 := strconv.Atoi(args[1])
	to, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return errors.New("positions must be numbers")
	}
	if !a.noteService.MoveMedia(ctx, c.ID, n.ID, from-1, to-1) {
		printlnFn("Nothing to move.")
	}
	return nil
}

// Now pins the clock used for labels and new notes, or releases it with
// "reset". Without arguments it prints the current time.
func (a *App) Now(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "reset":
		a.clock.Reset()
	default:
		t, err := ParseTime(strings.Join(args, " "), a.location)
		if err != nil {
			return err
		}
		a.clock.Set(t)
	}
	a.rows = nil
	printlnFn("Now:", a.now().Format("2006-01-02 15:04"))
	return nil
}

// describeBundle lists attachments in display order. Positions in the
// labels match what rmatt and move expect.
func describeBundle(b models.Bundle) []string {
	var out []string
	switch b := b.(type) {
	case models.MediaBundle:
		for pos, s := range ordering.Merge(b) {
			switch s.Kind {
			case models.KindImage:
				img := b.Images[s.Index]
				out = append(out, fmt.Sprintf("%d. image %d  %d bytes  %s", pos+1, s.Index+1, len(img.Payload), progress(img.Progress)))
			case models.KindVideo:
				v := b.Videos[s.Index]
				out = append(out, fmt.Sprintf("%d. video %d  %s  %s", pos+1, s.Index+1, v.Location, progress(v.Progress)))
			}
		}
	case models.FilesBundle:
		for i, f := range b.Files {
			out = append(out, fmt.Sprintf("file %d  %s  %s", i+1, f.Location, progress(f.Progress)))
		}
	case models.AudioBundle:
		for i, au := range b.Items {
			dur := "?"
			if au.Duration != nil {
				dur = au.Duration.String()
			}
			out = append(out, fmt.Sprintf("audio %d  %s  %s", i+1, au.Location, dur))
		}
	}
	return out
}

func progress(p *float64) string {
	if p == nil {
		return "done"
	}
	return fmt.Sprintf("%3.0f%%", *p*100)
}

func describeNote(n models.Note) string {
	if s, ok := query.Summary(n); ok {
		return s
	}
	return n.ID.String()
}

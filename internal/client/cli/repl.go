package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Contacts(ctx context.Context, args []string) error
	AddContact(ctx context.Context, args []string) error
	RemoveContact(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Pin(ctx context.Context, args []string) error
	Unpin(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error

	Note(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Video(ctx context.Context, args []string) error
	File(ctx context.Context, args []string) error
	Audio(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	RemoveNote(ctx context.Context, args []string) error
	RemoveAttachment(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error

	Now(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  contacts | ls              list conversations
  add                        add a contact
  rmcontact <n>              remove contact n and its notes
  open <n>                   open the conversation of contact n
  pin <n> | unpin <n>        pin or unpin contact n
  filter [company|all]       filter the list by company
  note [text]                add a text note
  photo <path>...            add a note with photos
  video <uri>...             add a note with videos
  file <uri>...              add a note with files
  audio <uri> <seconds>      add a voice note
  show                       show the open conversation
  rm <n>                     delete note n
  rmatt <n> <kind> <i>       delete attachment i of a kind from note n
  move <n> <from> <to>       move a photo or video of note n
  now [date|reset]           pin or release the clock used for labels
  exit | quit                leave the program`

// runREPL starts a simple read–eval–print loop for the notes CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF, on
// ctx cancellation, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("notes%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "contacts", "ls":
			handler = a.Contacts
		case "add":
			handler = a.AddContact
		case "rmcontact":
			handler = a.RemoveContact
		case "open":
			handler = a.Open
		case "pin":
			handler = a.Pin
		case "unpin":
			handler = a.Unpin
		case "filter":
			handler = a.Filter
		case "note":
			handler = a.Note
		case "photo":
			handler = a.Photo
		case "video":
			handler = a.Video
		case "file":
			handler = a.File
		case "audio":
			handler = a.Audio
		case "show":
			handler = a.Show
		case "rm":
			handler = a.RemoveNote
		case "rmatt":
			handler = a.RemoveAttachment
		case "move":
			handler = a.Move
		case "now":
			handler = a.Now
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

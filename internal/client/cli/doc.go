// Package cli provides the interactive notes command-line client.
//
// It wires configuration, the in-memory conversation store, the upload
// simulator and the contact registry behind a small REPL. Typical flow: add
// contacts, open a conversation, post notes with photos, videos or files,
// and watch the list reorder as uploads finish.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

// Package cli provides the interactive movielib command-line client.
//
// It wires configuration, the SQL store, the OMDb metadata client and the
// publishing helpers into a two-level REPL: a logged-out menu for account
// management and a library menu for the current owner. In single-user mode
// the account menu is skipped and every command addresses the whole library.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

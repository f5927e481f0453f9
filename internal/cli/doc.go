// Package cli is the interactive terminal front end of txviewer.
//
// The App moves between three screens. The login screen accepts the
// passcode challenge; the history screen pages and searches the
// transaction list; the detail screen shows one transaction with its
// amount, reference and balance masked until that transaction is
// unlocked with a fresh challenge.
//
// History and detail commands require a live session. When the session
// ends, whether by logout or by expiry noticed by the background watcher,
// the App drops back to the login screen.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL, and the command methods for details.
package cli

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
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Enroll(ctx context.Context) error
	Reset(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	ClearFilters(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Reveal(ctx context.Context, args []string) error
	Back(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, enroll, status, reset, help, exit"
	helpLoggedIn  = "Available commands: (l)ist [page], (n)ext, refresh, search <text> [--category c], clear, " +
		"show <id|#n>, reveal [id], back, status, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from the scanner, parses the first token as the command,
// and dispatches to methods on 'a'. The loop exits on scanner EOF, when ctx
// is done, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Any time:
//	  - help                         show available commands
//	  - login                        run the passcode challenge
//	  - enroll                       set or replace the device passcode
//	  - status                       session, expiry and capability
//	  - reset                        forget the passcode and the session
//	  - exit | quit                  leave the program
//
//	Logged in:
//	  - list [page]                  show a page of transactions
//	  - next                         show the following page
//	  - refresh                      reload the first page
//	  - search <text> [--category c]
//	  - clear                        drop search filters
//	  - show <id|#n>                 open a transaction
//	  - reveal [id]                  unlock sensitive fields of a transaction
//	  - back                         return to the list
//	  - logout                       end the session
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("tx %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "enroll":
			_ = a.Enroll(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "n", "next":
			_ = a.Next(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "search":
			_ = a.Search(ctx, args)

		case "clear":
			_ = a.ClearFilters(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "reveal":
			_ = a.Reveal(ctx, args)

		case "back":
			_ = a.Back(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

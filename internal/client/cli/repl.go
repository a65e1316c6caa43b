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
	isLoggedIn() bool
	Status(ctx context.Context) error
	Views(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	Check(ctx context.Context) error
	Set(ctx context.Context, key, value string) error
	Shift(ctx context.Context, n int) error
}

// runREPL starts a simple read–eval–print loop for the Credit Monitor CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, when ctx is cancelled, or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help            — show available commands
//	  - status          — session, connectivity and recent probes
//	  - views           — list the views
//	  - go <view>       — navigate to a view
//	  - refresh         — re-fetch the current view
//	  - check           — probe the backend now
//	  - exit | quit     — leave the program
//
//	Not logged in:
//	  - login           — exchange a Google ID token for a session
//
//	Logged in:
//	  - set <key> <val> — chart filter: unit, date, country, integration, client
//	  - next | prev     — move the chart window
//	  - logout          — log out
//
// Any errors returned by command handlers are ignored here; handlers print
// or log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("cm %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, views, go <view>, refresh, check, set <key> <value>, next, prev, logout, exit")
			} else {
				printlnFn("Available commands: status, views, go <view>, refresh, check, login, exit")
			}

		case "status":
			_ = a.Status(ctx)

		case "views":
			_ = a.Views(ctx)

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <view>")
				continue
			}
			_ = a.Go(ctx, args[0])

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "refresh", "r":
			_ = a.Refresh(ctx)

		case "check":
			_ = a.Check(ctx)

		case "set":
			if len(args) < 2 {
				printlnFn("Usage: set <unit|date|country|integration|client> <value>")
				continue
			}
			_ = a.Set(ctx, args[0], args[1])

		case "next":
			_ = a.Shift(ctx, 1)

		case "prev":
			_ = a.Shift(ctx, -1)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

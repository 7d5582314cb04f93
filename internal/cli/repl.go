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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Note(ctx context.Context, parentID string) error
	Notes(ctx context.Context, parentID string) error
	DelNote(ctx context.Context, annotationID string) error
}

// runREPL starts a simple read-eval-print loop for the daylog CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                  — show available commands
//	  - login                 — authenticate with an access token
//	  - exit | quit           — leave the program
//
//	Logged in:
//	  - help                  — show available commands
//	  - add                   — add a todo item to today's container
//	  - list                  — show containers grouped by day
//	  - note <container-id>   — attach a note to a container
//	  - notes <container-id>  — list a container's notes
//	  - delnote <note-id>     — delete a note
//	  - logout                — log out
//	  - exit | quit           — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("daylog %s> ", statusFn()))
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
				printlnFn("Available commands: add, (l)ist, note <container-id>, notes <container-id>, delnote <note-id>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "note":
			if len(args) == 0 {
				printlnFn("Usage: note <container-id>")
				continue
			}
			_ = a.Note(ctx, args[0])

		case "notes":
			if len(args) == 0 {
				printlnFn("Usage: notes <container-id>")
				continue
			}
			_ = a.Notes(ctx, args[0])

		case "delnote":
			if len(args) == 0 {
				printlnFn("Usage: delnote <note-id>")
				continue
			}
			_ = a.DelNote(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

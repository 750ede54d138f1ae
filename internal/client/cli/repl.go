package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var printlnFn = fmt.Println
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginGoogle(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Goto(ctx context.Context, path string) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the DocVault CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current route and user (from statusFn) and accepts:
//
//	Not logged in:
//	  - help             — show available commands
//	  - login            — sign in with username/email and password
//	  - google           — sign in with a Google ID token
//	  - register         — create an account
//	  - reset            — reset a forgotten password
//	  - whoami           — show the session and the last login error
//	  - goto <route>     — navigate, subject to route guards
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help, whoami, goto <route>
//	  - logout           — sign out
//	  - delete-account   — delete the account and sign out
//	  - exit | quit
//
// Errors returned by command handlers are ignored here; handlers notify the
// user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("docvault %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, goto <route>, logout, delete-account, exit")
			} else {
				printlnFn("Available commands: login, google, register, reset, whoami, goto <route>, exit")
			}
			printlnFn("Routes: / /login /register /reset-password /home /profile /settings")

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.LoginGoogle(ctx)

		case "register":
			_ = a.Register(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "goto":
			if len(args) == 0 {
				printlnFn("Usage: goto <route>")
				continue
			}
			_ = a.Goto(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

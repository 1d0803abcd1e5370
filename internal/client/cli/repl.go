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
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Receipt(ctx context.Context, args []string) error
	ReceiptURL(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from in and dispatches them to a until EOF
// or "exit"/"quit".
//
//	Not logged in:
//	  help, signup, login, exit | quit
//
//	Logged in:
//	  help, me, (l)ist [limit], add, delete <id>,
//	  receipt <id> <file>, receipt-url <id>, logout, exit | quit
//
// Command errors are reported by the commands themselves; the loop keeps going.
// The same reader feeds the interactive prompts of the commands.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("budget> %s > ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, (l)ist [limit], add, delete <id>, receipt <id> <file>, receipt-url <id>, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "me":
			_ = a.Me(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add":
			_ = a.Add(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "receipt":
			_ = a.Receipt(ctx, args)

		case "receipt-url":
			_ = a.ReceiptURL(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "me", "l", "list", "add", "delete", "receipt", "receipt-url", "logout":
		return true
	}
	return false
}

package views

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Open(ctx context.Context, nameOrPath string) error
	Export(ctx context.Context) error
	Recent(ctx context.Context) error
	Stats(ctx context.Context) error
}

// runREPL starts the read-eval-print loop for the console.
//
// It reads a line from the reader, parses the first token as the command,
// and dispatches to methods on 'a'. View commands go through Open so the
// route gate runs on every navigation. Unknown commands are reported back
// to the user. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		printlnFn(out, fmt.Sprintf("logdeck> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(out, "Available commands: dashboard, search, results, upload, files, export, recent, stats, whoami, logout, exit")
			} else {
				printlnFn(out, "Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "open":
			if len(parts) < 2 {
				printlnFn(out, "Usage: open <view>")
				continue
			}
			_ = a.Open(ctx, parts[1])

		case "d", "dashboard":
			_ = a.Open(ctx, "dashboard")

		case "s", "search":
			_ = a.Open(ctx, "search")

		case "r", "results":
			_ = a.Open(ctx, "results")

		case "upload":
			_ = a.Open(ctx, "upload")

		case "files":
			_ = a.Open(ctx, "files")

		case "export":
			_ = a.Export(ctx)

		case "recent":
			_ = a.Recent(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn(out, "Bye!")
			return

		default:
			printlnFn(out, "Unknown command:", cmd)
		}
	}
}

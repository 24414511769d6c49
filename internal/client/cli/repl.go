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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Usage(ctx context.Context) error
	Analyze(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Language(ctx context.Context, args []string) error
	OutputLanguage(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

const (
	helpCommon = "status, usage, analyze <file> [lang], history, show <id>, export <id> docx|pdf, delete <id>, clear, lang [code], outlang [code], theme [name], exit"
	helpGuest  = "Available commands: register, login, " + helpCommon
	helpUser   = "Available commands: logout, " + helpCommon
)

// runREPL reads commands from scanner until EOF, "exit" or "quit", or until
// ctx is done. The first token selects the command, the rest are passed as
// arguments. Handlers print their own results and errors, so the returned
// errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ms %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "status":
			_ = a.Status(ctx)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "usage":
			_ = a.Usage(ctx)

		case "analyze":
			_ = a.Analyze(ctx, args)

		case "h", "history":
			_ = a.History(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "clear":
			_ = a.Clear(ctx)

		case "lang":
			_ = a.Language(ctx, args)

		case "outlang":
			_ = a.OutputLanguage(ctx, args)

		case "theme":
			_ = a.Theme(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

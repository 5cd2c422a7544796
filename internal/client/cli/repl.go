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
	Login(ctx context.Context) error
	Status(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Recent(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Settings(ctx context.Context, args []string) error
	Pay(ctx context.Context, args []string) error
	Unpay(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Pull(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  status                      sync state and connectivity
  list <kind>                 accounts, incomeSources, categories, loans, transactions, customCurrencies, settings
  recent [count]              newest transactions
  add <type>                  account, income, category, tx, loan, currency
  settings [field value]      show or change settings (currency <code>, blur on|off)
  pay <loan id> <amount>      record a loan payment
  unpay <loan id> <amount>    reverse a loan payment
  rm <kind> <id>              delete a record
  sync                        push queued changes now
  pull                        replace local data with the server copy
  login                       sign the device in again
  export <dest> [--encrypt]   write a backup (path, http(s) URL or s3://bucket/key)
  import <src> [--encrypt]    restore a backup
  exit | quit                 leave the program`

// runREPL starts a simple read–eval–print loop for the fintrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fintrack %s > ", statusFn()))
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
			printlnFn(helpText)

		case "login":
			_ = a.Login(ctx)

		case "status":
			_ = a.Status(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "recent":
			_ = a.Recent(ctx, args)

		case "add":
			_ = a.Add(ctx, args)

		case "settings":
			_ = a.Settings(ctx, args)

		case "pay":
			_ = a.Pay(ctx, args)

		case "unpay":
			_ = a.Unpay(ctx, args)

		case "rm":
			_ = a.Remove(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "pull":
			_ = a.Pull(ctx)

		case "export":
			_ = a.Export(ctx, args)

		case "import":
			_ = a.Import(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

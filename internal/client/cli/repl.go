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
	Send(ctx context.Context) error
	Open(ctx context.Context, arg string) error
	Inbox(ctx context.Context) error
	Sent(ctx context.Context) error
	Post(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the SecretSpace CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	send           — pick a recipient, encrypt a message locally, share the link
//	open <link>    — claim a message by link or uuid and decrypt it locally
//	inbox          — list messages waiting for you
//	sent           — list messages you created
//	post           — publish a confession to the feed
//	help           — show available commands
//	exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("ss> ")
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
			printlnFn("Available commands: send, open <link|uuid>, inbox, sent, post, exit")

		case "send":
			_ = a.Send(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <link|uuid>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "inbox":
			_ = a.Inbox(ctx)

		case "sent":
			_ = a.Sent(ctx)

		case "post":
			_ = a.Post(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

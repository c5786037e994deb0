package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Clients(ctx context.Context) error
	AddClient(ctx context.Context) error
	Tasks(ctx context.Context) error
	AddTask(ctx context.Context) error
	Attach(ctx context.Context, args []string) error
	Attachments(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
// Errors from handlers are not fatal; handlers report them themselves.
// Commands that need a session are refused while logged out.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "cse %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession(cmd) && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: clients, addclient, tasks, addtask, attach <taskID> <file>, attachments <taskID>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "clients":
			_ = a.Clients(ctx)

		case "addclient":
			_ = a.AddClient(ctx)

		case "tasks":
			_ = a.Tasks(ctx)

		case "addtask":
			_ = a.AddTask(ctx)

		case "attach":
			_ = a.Attach(ctx, args)

		case "attachments":
			_ = a.Attachments(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "logout", "clients", "addclient", "tasks", "addtask", "attach", "attachments":
		return true
	}
	return false
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	inDetail() bool
	Refresh(ctx context.Context) error
	ToggleSort(ctx context.Context) error
	New(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Edit(ctx context.Context) error
	CancelEdit(ctx context.Context) error
	Describe(ctx context.Context, text string) error
	AddMoon(ctx context.Context, name string) error
	RemoveMoon(ctx context.Context, name string) error
	Save(ctx context.Context) error
	Delete(ctx context.Context) error
	Back(ctx context.Context) error
}

const (
	listHelp   = "Available commands: (l)ist, refresh, sort, new, open <id>, stats, help, exit"
	detailHelp = "Available commands: edit, desc <text>, addmoon <name>, rmmoon <name>, save, cancel, delete, back, stats, help, exit"
)

// runREPL reads one command per line and dispatches it to a. The first
// token is the command and the rest of the line its argument. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own alerts and the user re-issues the command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, showPrompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if showPrompt {
			printlnFn(fmt.Sprintf("%s > ", statusFn()))
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		if !dispatch(ctx, a, strings.TrimSpace(line)) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command line and reports whether the loop should go on.
func dispatch(ctx context.Context, a execIface, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	if cmd == "" {
		return true
	}

	switch cmd {
	case "help":
		if a.inDetail() {
			printlnFn(detailHelp)
		} else {
			printlnFn(listHelp)
		}
		return true
	case "exit", "quit":
		printlnFn("Bye!")
		return false
	}

	if a.inDetail() {
		dispatchDetail(ctx, a, cmd, arg)
	} else {
		dispatchList(ctx, a, cmd, arg)
	}
	return true
}

func dispatchList(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "l", "list", "refresh":
		_ = a.Refresh(ctx)

	case "sort":
		_ = a.ToggleSort(ctx)

	case "new":
		_ = a.New(ctx)

	case "open":
		if arg == "" {
			printlnFn("Usage: open <id>")
			return
		}
		_ = a.Open(ctx, arg)

	case "stats":
		_ = a.Stats(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchDetail(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "edit":
		_ = a.Edit(ctx)

	case "cancel":
		_ = a.CancelEdit(ctx)

	case "desc":
		_ = a.Describe(ctx, arg)

	case "addmoon":
		if arg == "" {
			printlnFn("Usage: addmoon <name>")
			return
		}
		_ = a.AddMoon(ctx, arg)

	case "rmmoon":
		if arg == "" {
			printlnFn("Usage: rmmoon <name>")
			return
		}
		_ = a.RemoveMoon(ctx, arg)

	case "save":
		_ = a.Save(ctx)

	case "delete":
		_ = a.Delete(ctx)

	case "back":
		_ = a.Back(ctx)

	case "stats":
		_ = a.Stats(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}

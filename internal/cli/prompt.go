package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/wizard"
)

// Console is a line-based operator console. One Console must serve every
// prompt of a session so that buffered input is not lost between prompts.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	scanner *bufio.Scanner
}

// NewConsole reads answers from in and writes prompts to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{out: out, scanner: bufio.NewScanner(in)}
}

// readLine returns the next trimmed, lower-cased input line. ok is false on
// EOF or a read error, which every caller treats as the abandoning answer.
func (c *Console) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(c.scanner.Text())), true
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// ConsoleDialogs answers engine prompts on a Console.
type ConsoleDialogs struct {
	Console *Console
}

// NoSelection implements engine.Dialogs. The default is Cancel.
func (d ConsoleDialogs) NoSelection(context.Context) engine.SessionChoice {
	c := d.Console
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n%s\n%s\n? %s? [y/N] ", engine.TitleFailed, engine.NoSelectionMessage, engine.LabelRestart)
	input, ok := c.readLine()
	if !ok {
		return engine.Cancel
	}
	switch input {
	case "y", "yes":
		return engine.RestartSession
	default:
		return engine.Cancel
	}
}

// UnwrapFailed implements engine.Dialogs. The default is Skip.
func (d ConsoleDialogs) UnwrapFailed(_ context.Context, h engine.MeshHandle, err error) engine.Decision {
	c := d.Console
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n%s\n%s\n? [r] %s / [S] %s: ", engine.TitleFailed, engine.FailureMessage(h, err),
		engine.LabelRetry, engine.LabelSkip)
	input, ok := c.readLine()
	if !ok {
		return engine.Skip
	}
	switch input {
	case "r", "retry", "y", "yes":
		return engine.Retry
	default:
		return engine.Skip
	}
}

// Completed implements engine.Dialogs.
func (d ConsoleDialogs) Completed(_ context.Context, s engine.Summary) {
	c := d.Console
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n%s\n%s\n", engine.TitleCompleted, engine.CompletionMessage(s))
}

// ConsolePresenter shows the wizard window as text and waits for the
// operator to create or close.
type ConsolePresenter struct {
	Console *Console
	// Watch, if set, keeps the open wizard's worklist in sync with the
	// selection until the operator answers.
	Watch func(ctx context.Context, w *wizard.Wizard) error
}

// Present implements wizard.Presenter.
func (p ConsolePresenter) Present(ctx context.Context, w *wizard.Wizard) (engine.Summary, bool, error) {
	if p.Watch != nil {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() { _ = p.Watch(watchCtx, w) }()
	}

	c := p.Console
	c.mu.Lock()
	c.printf("\n%s\n", w.Title())
	printTargets(c.out, w.Targets())
	c.printf("? Press Enter to %s, or q to close: ", strings.ToLower(w.CreateButton()))
	input, ok := c.readLine()
	c.mu.Unlock()

	if !ok || input == "q" || input == "quit" {
		return engine.Summary{}, false, nil
	}

	summary, err := w.Create(ctx)
	return summary, true, err
}

// ImmediatePresenter runs Create as soon as the wizard opens. It backs the
// non-interactive unwrap command.
type ImmediatePresenter struct{}

// Present implements wizard.Presenter.
func (ImmediatePresenter) Present(ctx context.Context, w *wizard.Wizard) (engine.Summary, bool, error) {
	summary, err := w.Create(ctx)
	return summary, true, err
}

func printTargets(out io.Writer, targets []engine.MeshHandle) {
	if len(targets) == 0 {
		_, _ = fmt.Fprintln(out, "  (no mesh selected)")
		return
	}
	for _, h := range targets {
		_, _ = fmt.Fprintf(out, "  - %s (%s)\n", h.Name, h.Mesh.Name)
	}
}

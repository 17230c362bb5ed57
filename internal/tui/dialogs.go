package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/engine/batch"
)

// SelectionChangedMsg tells the wizard that the editor selection changed.
// Missing lists selected names that do not exist in the scene.
type SelectionChangedMsg struct {
	Selection []any
	Missing   []string
	Err       error
}

// progressMsg carries a batch progress snapshot.
type progressMsg batch.ProgressSnapshot

// batchDoneMsg is sent when Create returns.
type batchDoneMsg struct {
	summary engine.Summary
	err     error
}

// noSelectionRequest asks the operator to restart or cancel.
type noSelectionRequest struct {
	reply chan<- engine.SessionChoice
}

// failureRequest asks the operator to retry or skip a failed item.
type failureRequest struct {
	handle engine.MeshHandle
	err    error
	reply  chan<- engine.Decision
}

// completedRequest shows the completion notice until it is closed.
type completedRequest struct {
	summary engine.Summary
	reply   chan<- struct{}
}

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Dialogs implements engine.Dialogs on top of a Bubble Tea program. Each
// prompt is sent to the program as a message and the calling goroutine
// blocks until the operator answers, the context ends, or the program
// exits. In the last two cases the abandoning answer is returned.
type Dialogs struct {
	mu     sync.RWMutex
	sender Sender
	done   <-chan struct{}
}

// NewDialogs returns a bridge that is not yet attached to a program.
func NewDialogs() *Dialogs {
	return &Dialogs{}
}

// Attach connects the bridge to a program. done must be closed once the
// program has exited.
func (d *Dialogs) Attach(sender Sender, done <-chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sender = sender
	d.done = done
}

func (d *Dialogs) attached() (Sender, <-chan struct{}) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sender, d.done
}

// NoSelection implements engine.Dialogs.
func (d *Dialogs) NoSelection(ctx context.Context) engine.SessionChoice {
	sender, done := d.attached()
	if sender == nil {
		return engine.Cancel
	}
	reply := make(chan engine.SessionChoice, 1)
	sender.Send(noSelectionRequest{reply: reply})
	select {
	case c := <-reply:
		return c
	case <-ctx.Done():
	case <-done:
	}
	return engine.Cancel
}

// UnwrapFailed implements engine.Dialogs.
func (d *Dialogs) UnwrapFailed(ctx context.Context, h engine.MeshHandle, err error) engine.Decision {
	sender, done := d.attached()
	if sender == nil {
		return engine.Skip
	}
	reply := make(chan engine.Decision, 1)
	sender.Send(failureRequest{handle: h, err: err, reply: reply})
	select {
	case dec := <-reply:
		return dec
	case <-ctx.Done():
	case <-done:
	}
	return engine.Skip
}

// Completed implements engine.Dialogs.
func (d *Dialogs) Completed(ctx context.Context, s engine.Summary) {
	sender, done := d.attached()
	if sender == nil {
		return
	}
	reply := make(chan struct{}, 1)
	sender.Send(completedRequest{summary: s, reply: reply})
	select {
	case <-reply:
	case <-ctx.Done():
	case <-done:
	}
}

// Progress forwards batch progress to the program.
func (d *Dialogs) Progress(p *batch.Progress) {
	sender, _ := d.attached()
	if sender == nil {
		return
	}
	sender.Send(progressMsg(p.Snapshot()))
}

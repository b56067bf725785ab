// Package notify carries transient user-facing notifications, the terminal
// counterpart of a snackbar.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantInfo    Variant = "info"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

type Notification struct {
	Variant Variant
	Message string
}

type Notifier interface {
	Notify(variant Variant, message string)
}

// Writer prints each notification on its own line. Safe for concurrent use;
// pass the same mutex the view renderer uses so lines never interleave.
type Writer struct {
	mu  *sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer, mu *sync.Mutex) *Writer {
	if mu == nil {
		mu = &sync.Mutex{}
	}

	return &Writer{out: out, mu: mu}
}

func (w *Writer) Notify(variant Variant, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fmt.Fprintf(w.out, "[%s] %s\n", variant, message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(variant Variant, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, Notification{Variant: variant, Message: message})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return Notification{}, false
	}

	return r.items[len(r.items)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = nil
}

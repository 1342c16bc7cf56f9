// Package notify carries user-facing notifications from controllers to
// whatever surface shows them (TUI status line, CLI stderr).
package notify

import (
	"sync"

	"github.com/google/uuid"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindLoading Kind = "loading"
)

// Notification is one message. Notifications sharing an ID are updates of
// the same toast, e.g. a loading notice that later resolves.
type Notification struct {
	ID      string
	Kind    Kind
	Message string
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) {}

// OrDiscard returns n, or Discard when n is nil.
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard{}
	}
	return n
}

// NewID returns a fresh notification id.
func NewID() string { return uuid.NewString() }

func Info(n Notifier, msg string) {
	n.Notify(Notification{ID: NewID(), Kind: KindInfo, Message: msg})
}

func Success(n Notifier, msg string) {
	n.Notify(Notification{ID: NewID(), Kind: KindSuccess, Message: msg})
}

func Error(n Notifier, msg string) {
	n.Notify(Notification{ID: NewID(), Kind: KindError, Message: msg})
}

// Recorder keeps every notification. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Messages returns the recorded messages of one kind.
func (r *Recorder) Messages(kind Kind) []string {
	var out []string
	for _, n := range r.All() {
		if n.Kind == kind {
			out = append(out, n.Message)
		}
	}
	return out
}

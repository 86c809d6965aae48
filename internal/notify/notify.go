// Package notify carries one-shot, dismissible user notifications out of the
// client-side state components.
package notify

import (
	"sync"

	"gem-auction/utils"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Notifier receives notifications. Implementations must not block for long;
// callers invoke Notify outside of their own locks.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to Notifier
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the application log
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	utils.Debug("notification", map[string]any{
		"level":       string(n.Level),
		"title":       n.Title,
		"description": n.Description,
	})
}

// Recorder keeps every notification in order. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Titles returns the recorded titles in order
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, 0, len(r.all))
	for _, n := range r.all {
		titles = append(titles, n.Title)
	}
	return titles
}

// Last returns the most recent notification and whether there was one
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

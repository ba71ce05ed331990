// Package notify defines the notification sink consumed by the store.
// The terminal frontends render these as status messages; tests record
// them for assertion.
package notify

import (
	"fmt"
	"sync"

	"github.com/hardhatlabs/constructpro/internal/logger"
)

// Severity classifies a notification.
type Severity int

const (
	Success Severity = iota
	Warning
	Failure
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Notifier receives user-facing notifications. Every mutating action
// produces exactly one notification, success or failure.
type Notifier interface {
	Notify(title, description string, severity Severity)
}

// Log is a Notifier that writes notifications to the application log.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(title, description string, severity Severity) {
	switch severity {
	case Failure:
		logger.Error(title, logger.F("detail", description))
	case Warning:
		logger.Warn(title, logger.F("detail", description))
	default:
		logger.Info(title, logger.F("detail", description))
	}
}

// Notification is a recorded notification.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s: %s", n.Severity, n.Title, n.Description)
}

// Recorder is a Notifier that keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(title, description string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Title: title, Description: description, Severity: severity})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Reset clears the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

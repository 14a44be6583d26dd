// Package notify defines the notification channel between the stores and
// whatever presentation layer displays their outcomes. Every store
// operation emits exactly one success or error message; how it is shown
// (toast, banner, log line) is up to the consumer.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/metrics"
)

// Notifier receives the human-readable outcome of a store operation.
type Notifier interface {
	// Success reports a completed operation.
	Success(msg string)

	// Error reports a failed operation.
	Error(msg string)
}

// LogNotifier writes notifications to a zerolog logger. This is the
// default sink when no interactive surface is attached.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("channel", "notify").Logger()}
}

// Success implements Notifier.
func (n *LogNotifier) Success(msg string) {
	n.logger.Info().Str("outcome", "success").Msg(msg)
}

// Error implements Notifier.
func (n *LogNotifier) Error(msg string) {
	n.logger.Warn().Str("outcome", "error").Msg(msg)
}

// Notification is a single recorded message.
type Notification struct {
	// OK is true for success notifications.
	OK bool

	// Message is the user-facing text.
	Message string
}

// Recorder buffers notifications in order. The console drains it after
// each action to print toasts; tests use it to assert the
// one-notification-per-outcome contract.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Success implements Notifier.
func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{OK: true, Message: msg})
}

// Error implements Notifier.
func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{OK: false, Message: msg})
}

// Drain returns all buffered notifications and clears the buffer.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}

// Len returns the number of buffered notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

// Success implements Notifier.
func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

// Error implements Notifier.
func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Counted wraps a Notifier and counts emitted notifications.
type Counted struct {
	Next Notifier
}

// Success implements Notifier.
func (c Counted) Success(msg string) {
	metrics.NotificationsTotal.WithLabelValues("success").Inc()
	c.Next.Success(msg)
}

// Error implements Notifier.
func (c Counted) Error(msg string) {
	metrics.NotificationsTotal.WithLabelValues("error").Inc()
	c.Next.Error(msg)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Success implements Notifier.
func (Discard) Success(string) {}

// Error implements Notifier.
func (Discard) Error(string) {}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
	_ Notifier = (Multi)(nil)
	_ Notifier = Counted{}
	_ Notifier = Discard{}
)

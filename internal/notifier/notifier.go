// Package notifier delivers reminder messages to users through a pluggable
// gateway.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nurture/internal/logger"
)

// Notifier delivers one message to one user.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, userID, message string) error
}

// Closer is implemented by notifiers that hold a connection.
type Closer interface {
	Close()
}

// Options selects and configures a notifier.
type Options struct {
	Kind        string // log, shoutrrr or nats
	URLs        []string
	NATSURL     string
	NATSSubject string
}

// New builds the notifier named by opts.Kind. An empty kind means "log".
func New(opts Options) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", "log":
		return NewLogNotifier(), nil
	case "shoutrrr":
		return NewShoutrrrNotifier(opts.URLs)
	case "nats":
		return NewNATSNotifier(opts.NATSURL, opts.NATSSubject)
	default:
		return nil, fmt.Errorf("unknown notifier %q", opts.Kind)
	}
}

// LogNotifier writes messages to the application log instead of delivering
// them.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, userID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Named("notifier").Infow("notification", "user_id", userID, "message", message)
	return nil
}

// Sent is one message captured by a Recorder.
type Sent struct {
	UserID  string
	Message string
}

// Recorder keeps every message in memory. FailFor makes delivery to the
// given users fail.
type Recorder struct {
	mu      sync.Mutex
	sent    []Sent
	FailFor map[string]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{FailFor: map[string]error{}}
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Notify(ctx context.Context, userID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailFor[userID]; ok {
		return err
	}
	r.sent = append(r.sent, Sent{UserID: userID, Message: message})
	return nil
}

// Sent returns a copy of the messages delivered so far.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

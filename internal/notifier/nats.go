package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultNATSSubject is used when no subject is configured.
const DefaultNATSSubject = "nurture.notifications"

// Event is the JSON payload published for each notification.
type Event struct {
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type publisher interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSNotifier publishes notification events for a push gateway subscribed
// to the subject.
type NATSNotifier struct {
	conn    publisher
	closer  func()
	subject string
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if url == "" {
		return nil, errors.New("nats notifier needs a server URL")
	}
	nc, err := nats.Connect(url, nats.Name("nurture-api"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	n := newNATSNotifier(nc, subject)
	n.closer = func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return n, nil
}

func newNATSNotifier(conn publisher, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSNotifier{conn: conn, subject: subject}
}

func (n *NATSNotifier) Name() string { return "nats" }

// Notify publishes the event and waits for the server to acknowledge the
// flush, so a dead connection is reported as a failed delivery.
func (n *NATSNotifier) Notify(ctx context.Context, userID, message string) error {
	data, err := json.Marshal(Event{UserID: userID, Message: message, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return err
	}
	return n.conn.FlushWithContext(ctx)
}

// Close drains the connection.
func (n *NATSNotifier) Close() {
	if n.closer != nil {
		n.closer()
	}
}

package notifier

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

const shoutrrrTimeout = 10 * time.Second

// sender is the part of the shoutrrr router used here.
type sender interface {
	Send(message string, params *stypes.Params) []error
}

// ShoutrrrNotifier forwards messages to every configured shoutrrr URL
// (ntfy, gotify, pushover, a generic webhook...). The gateway is expected to
// route by the user id carried in the title.
type ShoutrrrNotifier struct {
	sender sender
}

// NewShoutrrrNotifier validates the URLs and builds the router.
func NewShoutrrrNotifier(urls []string) (*ShoutrrrNotifier, error) {
	if len(urls) == 0 {
		return nil, errors.New("shoutrrr notifier needs at least one URL")
	}
	router, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, err
	}
	router.Timeout = shoutrrrTimeout
	router.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrNotifier{sender: router}, nil
}

func (n *ShoutrrrNotifier) Name() string { return "shoutrrr" }

func (n *ShoutrrrNotifier) Notify(ctx context.Context, userID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := stypes.Params{}
	params.SetTitle("Nurture:" + userID)
	return errors.Join(n.sender.Send(message, &params)...)
}

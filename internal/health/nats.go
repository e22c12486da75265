package health

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"rr-monitor.klederson.com/internal/config"
)

// IntervalsRequest is sent to the health collaborator over NATS.
type IntervalsRequest struct {
	WindowSeconds int64 `json:"window_seconds"`
	Limit         int   `json:"limit,omitempty"`
}

// IntervalsReply is the collaborator's answer. Intervals are oldest first.
type IntervalsReply struct {
	Intervals []float64 `json:"intervals"`
	Error     string    `json:"error,omitempty"`
}

// ReplyErrUnauthorized is the Error value a collaborator uses to refuse
// access.
const ReplyErrUnauthorized = "unauthorized"

// Requester is the subset of *nats.Conn used by NATSFetcher.
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// ConnectNATS dials a NATS server with reconnects enabled. A server that is
// down at start-up is retried in the background; requests fail with
// ErrUnavailable until it is reachable.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(
		url,
		nats.Name(config.AppName),
		nats.Timeout(3*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nc, nil
}

// NATSFetcher asks a request/reply responder for the latest intervals.
type NATSFetcher struct {
	conn    Requester
	subject string
	window  time.Duration
	limit   int
	log     logrus.FieldLogger
}

// NewNATSFetcher creates a fetcher publishing requests on subject.
func NewNATSFetcher(conn Requester, subject string, window time.Duration, limit int, log logrus.FieldLogger) *NATSFetcher {
	if subject == "" {
		subject = config.NATSSubject
	}
	if window <= 0 {
		window = config.FetchWindow
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NATSFetcher{
		conn:    conn,
		subject: subject,
		window:  window,
		limit:   limit,
		log:     log.WithField("component", "nats-health"),
	}
}

func (f *NATSFetcher) FetchLatestIntervals(ctx context.Context) ([]float64, error) {
	req, err := json.Marshal(IntervalsRequest{
		WindowSeconds: int64(f.window / time.Second),
		Limit:         f.limit,
	})
	if err != nil {
		return nil, err
	}

	msg, err := f.conn.RequestWithContext(ctx, f.subject, req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", ErrUnavailable, f.subject, err)
	}

	var reply IntervalsReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %v", ErrUnavailable, err)
	}
	switch reply.Error {
	case "":
	case ReplyErrUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, reply.Error)
	}

	f.log.WithField("count", len(reply.Intervals)).Debug("fetched intervals")
	return reply.Intervals, nil
}

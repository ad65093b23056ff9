package service

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"sensitivity-calc.klederson.com/internal/calc"
)

// allArrays labels requests that are not tied to one array.
const allArrays = "all"

// Gateway runs the requests produced by the engine and turns every outcome
// into the reply event carrying the request token.
type Gateway struct {
	client  Client
	metrics *Metrics
	log     *log.Entry
	timeout time.Duration
}

type GatewayOption func(*Gateway)

func WithMetrics(m *Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

func WithGatewayLogger(l *log.Entry) GatewayOption {
	return func(g *Gateway) { g.log = l }
}

// WithRequestTimeout bounds each request run through Cmd.
func WithRequestTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

func NewGateway(client Client, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client:  client,
		log:     log.WithField("component", "gateway"),
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute performs req and returns its reply. It never fails: errors come
// back as the matching failure event.
func (g *Gateway) Execute(ctx context.Context, req calc.Request) calc.Event {
	start := time.Now()
	ev, err := g.execute(ctx, req)
	elapsed := time.Since(start)

	array := requestArray(req)
	entry := g.log.WithFields(log.Fields{
		"kind":    req.Kind(),
		"array":   array,
		"elapsed": elapsed.Round(time.Millisecond),
	})
	if err != nil {
		g.metrics.observe(req.Kind(), array, OutcomeFailure, elapsed.Seconds())
		entry.WithError(err).Warn("request failed")
		return calc.Failure(req, Message(err))
	}
	g.metrics.observe(req.Kind(), array, OutcomeSuccess, elapsed.Seconds())
	entry.Debug("request completed")
	return ev
}

func (g *Gateway) execute(ctx context.Context, req calc.Request) (calc.Event, error) {
	switch r := req.(type) {
	case calc.OctileLookup:
		reply, err := g.client.Atmosphere(ctx, r)
		if err != nil {
			return nil, err
		}
		return calc.OctileReceived{
			Token:  r.Token,
			Octile: reply.Octile,
			Atmosphere: calc.Atmosphere{
				Known:   true,
				TauTsky: reply.TauAndTsky,
				Tsys:    reply.Tsys,
				Message: reply.Message,
			},
		}, nil
	case calc.BandLookup:
		bands, err := g.client.ReceiverBands(ctx, r.FreqGHz)
		if err != nil {
			return nil, err
		}
		return calc.BandsReceived{Token: r.Token, Bands: bands}, nil
	case calc.SensitivityCalc:
		jy, err := g.client.Sensitivity(ctx, r.Observation, r.TimeSec)
		if err != nil {
			return nil, err
		}
		return calc.SensitivityReceived{Array: r.Array, Token: r.Token, Jansky: jy}, nil
	case calc.TimeCalc:
		sec, err := g.client.IntegrationTime(ctx, r.Observation, r.SensitivityJy)
		if err != nil {
			return nil, err
		}
		return calc.TimeReceived{Array: r.Array, Token: r.Token, Seconds: sec}, nil
	default:
		panic(fmt.Sprintf("service: unhandled request %T", req))
	}
}

// Cmd runs req off the event loop and delivers its reply as a message.
func (g *Gateway) Cmd(req calc.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()
		return g.Execute(ctx, req)
	}
}

// Cmds batches one Cmd per request.
func (g *Gateway) Cmds(reqs []calc.Request) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(reqs))
	for i, req := range reqs {
		cmds[i] = g.Cmd(req)
	}
	return tea.Batch(cmds...)
}

// Discarded records a reply the engine dropped as stale.
func (g *Gateway) Discarded(ev calc.Event) {
	kind := ReplyKind(ev)
	g.metrics.StaleReply(kind)
	g.log.WithField("kind", kind).Debug("discarded stale reply")
}

// Message is the user-facing text for a failed request. A service reply
// keeps its own message.
func Message(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	return err.Error()
}

// ReplyKind names the request kind a reply event answers.
func ReplyKind(ev calc.Event) string {
	switch ev.(type) {
	case calc.OctileReceived, calc.OctileFailed:
		return calc.OctileLookup{}.Kind()
	case calc.BandsReceived, calc.BandsFailed:
		return calc.BandLookup{}.Kind()
	case calc.SensitivityReceived, calc.SensitivityFailed:
		return calc.SensitivityCalc{}.Kind()
	case calc.TimeReceived, calc.TimeFailed:
		return calc.TimeCalc{}.Kind()
	default:
		return "unknown"
	}
}

func requestArray(req calc.Request) string {
	switch r := req.(type) {
	case calc.SensitivityCalc:
		return r.Array.String()
	case calc.TimeCalc:
		return r.Array.String()
	default:
		return allArrays
	}
}

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/logging"
)

// stubClient answers from fixed values or fails with err.
type stubClient struct {
	err   error
	atm   AtmosphereReply
	bands []string
	value float64
}

func (s stubClient) Atmosphere(context.Context, calc.OctileLookup) (AtmosphereReply, error) {
	return s.atm, s.err
}

func (s stubClient) ReceiverBands(context.Context, float64) ([]string, error) {
	return s.bands, s.err
}

func (s stubClient) Sensitivity(context.Context, calc.Observation, float64) (float64, error) {
	return s.value, s.err
}

func (s stubClient) IntegrationTime(context.Context, calc.Observation, float64) (float64, error) {
	return s.value, s.err
}

func newTestGateway(t *testing.T, c Client) (*Gateway, *Metrics) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewGateway(c, WithMetrics(m), WithGatewayLogger(logging.NullLogger())), m
}

func TestGatewayReplies(t *testing.T) {
	g, m := newTestGateway(t, stubClient{
		atm:   AtmosphereReply{Octile: 4, TauAndTsky: "0.2/40", Tsys: 150},
		bands: []string{"ALMA_RB_07"},
		value: 0.5,
	})
	ctx := context.Background()
	obs := calc.Observation{Array: calc.TotalPower}

	tests := []struct {
		req  calc.Request
		want calc.Event
	}{
		{
			calc.OctileLookup{Token: 7},
			calc.OctileReceived{Token: 7, Octile: 4, Atmosphere: calc.Atmosphere{Known: true, TauTsky: "0.2/40", Tsys: 150}},
		},
		{calc.BandLookup{Token: 2}, calc.BandsReceived{Token: 2, Bands: []string{"ALMA_RB_07"}}},
		{
			calc.SensitivityCalc{Token: 3, Observation: obs},
			calc.SensitivityReceived{Array: calc.TotalPower, Token: 3, Jansky: 0.5},
		},
		{
			calc.TimeCalc{Token: 9, Observation: obs},
			calc.TimeReceived{Array: calc.TotalPower, Token: 9, Seconds: 0.5},
		},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, g.Execute(ctx, tc.req), tc.req.Kind())
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("sensitivity", "tp", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("octile", allArrays, OutcomeSuccess)))
}

func TestGatewayFailures(t *testing.T) {
	remote := errors.Wrap(&RemoteError{Status: 400, Message: "Unknown frequency: 80 GHz"}, "atmosphere lookup")
	g, m := newTestGateway(t, stubClient{err: remote})
	ctx := context.Background()

	ev := g.Execute(ctx, calc.OctileLookup{Token: 5})
	assert.Equal(t, calc.OctileFailed{Token: 5, Message: "Unknown frequency: 80 GHz"}, ev)

	ev = g.Execute(ctx, calc.TimeCalc{Token: 1, Observation: calc.Observation{Array: calc.SevenM}})
	assert.Equal(t, calc.TimeFailed{Array: calc.SevenM, Token: 1, Message: "Unknown frequency: 80 GHz"}, ev)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("time", "7m", OutcomeFailure)))
}

func TestGatewayTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g, _ := newTestGateway(t, NewHTTPClient(url, 0, WithRetries(1)))
	ev := g.Execute(context.Background(), calc.SensitivityCalc{Token: 4, Observation: calc.Observation{Array: calc.TwelveM}})
	failed, ok := ev.(calc.SensitivityFailed)
	require.True(t, ok, "%T", ev)
	assert.Equal(t, calc.Token(4), failed.Token)
	assert.True(t, strings.HasPrefix(failed.Message, "sensitivity for 12m"), failed.Message)
}

func TestGatewayCmd(t *testing.T) {
	g, _ := newTestGateway(t, stubClient{bands: []string{}})
	assert.Nil(t, g.Cmds(nil))

	msg := g.Cmd(calc.BandLookup{Token: 1})()
	assert.Equal(t, calc.BandsReceived{Token: 1, Bands: []string{}}, msg)
}

func TestGatewayDiscarded(t *testing.T) {
	g, m := newTestGateway(t, stubClient{})
	g.Discarded(calc.SensitivityReceived{})
	g.Discarded(calc.SensitivityFailed{})
	g.Discarded(calc.BandsReceived{})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StaleReplies.WithLabelValues("sensitivity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleReplies.WithLabelValues("bands")))
}

func TestMetricsReRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, first.Requests, second.Requests)
}

func TestReplyKind(t *testing.T) {
	assert.Equal(t, "octile", ReplyKind(calc.OctileFailed{}))
	assert.Equal(t, "time", ReplyKind(calc.TimeReceived{}))
	assert.Equal(t, "unknown", ReplyKind(calc.Started{}))
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"sensitivity-calc.klederson.com/internal/calc"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetries      = 3
	defaultBandCacheTTL = 10 * time.Minute
	requestIDHeader     = "X-Request-ID"
)

// HTTPClient talks to the calculator web API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retries    uint
	retryDelay time.Duration
	bands      *cache.Cache
	log        *log.Entry
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithRetries sets how many attempts an idempotent lookup gets.
func WithRetries(n uint) Option {
	return func(h *HTTPClient) {
		if n > 0 {
			h.retries = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(h *HTTPClient) { h.retryDelay = d }
}

// WithBandCacheTTL sets how long receiver-band lists are reused.
func WithBandCacheTTL(ttl time.Duration) Option {
	return func(h *HTTPClient) { h.bands = cache.New(ttl, 2*ttl) }
}

func WithLogger(l *log.Entry) Option {
	return func(h *HTTPClient) { h.log = l }
}

// NewHTTPClient creates a client for the service rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    defaultRetries,
		retryDelay: 200 * time.Millisecond,
		bands:      cache.New(defaultBandCacheTTL, 2*defaultBandCacheTTL),
		log:        log.WithField("component", "http-client"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the configured service root.
func (h *HTTPClient) BaseURL() string {
	return h.baseURL
}

func (h *HTTPClient) Atmosphere(ctx context.Context, q calc.OctileLookup) (AtmosphereReply, error) {
	parts := []string{"webapi", "atmDetailsForBand", url.PathEscape(q.Band)}
	if !q.BestFit {
		parts = append(parts, strconv.Itoa(q.Octile))
	}
	parts = append(parts, formatFloat(q.FreqGHz), formatFloat(q.DecDegrees))

	var reply AtmosphereReply
	err := h.getWithRetry(ctx, strings.Join(parts, "/"), &reply)
	return reply, errors.Wrap(err, "atmosphere lookup")
}

func (h *HTTPClient) ReceiverBands(ctx context.Context, freqGHz float64) ([]string, error) {
	key := formatFloat(freqGHz)
	if cached, ok := h.bands.Get(key); ok {
		return cached.([]string), nil
	}
	var reply bandsReply
	if err := h.getWithRetry(ctx, "webapi/receiverBand/"+key, &reply); err != nil {
		return nil, errors.Wrap(err, "receiver band lookup")
	}
	h.bands.Set(key, reply.Items, cache.DefaultExpiration)
	return reply.Items, nil
}

// Sensitivity and IntegrationTime are not retried: a calculation that
// reached the service may already be superseded by the time it is resent.
func (h *HTTPClient) Sensitivity(ctx context.Context, obs calc.Observation, timeSec float64) (float64, error) {
	body := newCalcBody(obs)
	body.IntegrationTimeInSec = &timeSec
	var reply sensitivityReply
	if err := h.do(ctx, http.MethodPost, "webapi/sensitivity", body, &reply); err != nil {
		return 0, errors.Wrapf(err, "sensitivity for %s", obs.Array)
	}
	return reply.SensitivityInJ, nil
}

func (h *HTTPClient) IntegrationTime(ctx context.Context, obs calc.Observation, sensJy float64) (float64, error) {
	body := newCalcBody(obs)
	body.SensitivityInJ = &sensJy
	var reply timeReply
	if err := h.do(ctx, http.MethodPost, "webapi/time", body, &reply); err != nil {
		return 0, errors.Wrapf(err, "integration time for %s", obs.Array)
	}
	return reply.IntegrationTimeInSec, nil
}

// getWithRetry retries transport failures and 5xx replies. A 4xx reply
// carries a message for the user and is returned at once.
func (h *HTTPClient) getWithRetry(ctx context.Context, path string, out interface{}) error {
	return retry.Do(
		func() error { return h.do(ctx, http.MethodGet, path, nil, out) },
		retry.Context(ctx),
		retry.Attempts(h.retries),
		retry.Delay(h.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			h.log.WithError(err).WithField("attempt", n+1).Debugf("retrying GET %s", path)
		}),
	)
}

func retryable(err error) bool {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func (h *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(buf)
	}

	endpoint := h.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	h.log.WithFields(log.Fields{
		"request_id": id,
		"status":     resp.StatusCode,
	}).Debugf("%s %s", method, endpoint)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var reply errorReply
		_ = json.Unmarshal(raw, &reply)
		return &RemoteError{Status: resp.StatusCode, Message: reply.Message}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

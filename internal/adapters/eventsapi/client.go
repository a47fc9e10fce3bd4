// Package eventsapi is the HTTP adapter for the remote events REST API.
//
// Two transports are kept: an anonymous one for public endpoints and a bearer
// one whose Authorization header is attached by oauth2.Transport from the
// session's current credential.
package eventsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/ports"
)

const (
	defaultTimeout   = 15 * time.Second
	maxErrorBodySize = 4 << 10
	maxBodySize      = 8 << 20
	requestIDHeader  = "X-Request-ID"
	userAgent        = "saarevents-cli"
)

// Config captures the client's connection settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryLimit int
	// Tokens supplies the bearer credential for authenticated endpoints.
	Tokens ports.TokenSource
	// Transport is the base round tripper; defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client talks to the events API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	retryLimit int
	timeout    time.Duration
	jar        http.CookieJar
	transport  http.RoundTripper
	anon       *http.Client
	authed     *http.Client
	logger     *slog.Logger
}

// NewClient builds an API client. Callers should pass a sanitized config.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http(s), got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := max(cfg.RetryLimit, 0)

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    base,
		retryLimit: retries,
		timeout:    timeout,
		jar:        jar,
		transport:  transport,
		logger:     logger.With("component", "eventsapi"),
	}
	c.anon = &http.Client{Timeout: timeout, Jar: jar, Transport: transport}
	c.authed = c.bearerClient(sessionTokenSource{tokens: cfg.Tokens})
	return c, nil
}

// bearerClient returns a client whose requests carry the token from src.
func (c *Client) bearerClient(src oauth2.TokenSource) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Jar:     c.jar,
		Transport: &oauth2.Transport{
			Source: src,
			Base:   c.transport,
		},
	}
}

// withToken binds a request to one specific credential rather than whatever
// the session holds when the request is sent.
func (c *Client) withToken(token string) *http.Client {
	return c.bearerClient(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

// call describes one API request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	client *http.Client
	// noRetry sends a read exactly once, for reads whose failure has side effects.
	noRetry bool
}

// do sends the call and decodes a 2xx JSON body into out (when non-nil).
// Idempotent reads are retried with linear backoff on transport errors and 5xx
// unless the call opts out.
func (c *Client) do(ctx context.Context, in call, out any) error {
	var payload []byte
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", in.method, in.path, err)
		}
		payload = b
	}

	attempts := 1
	if in.method == http.MethodGet && !in.noRetry {
		attempts += c.retryLimit
	}

	var lastErr error
	for attempt := range attempts {
		lastErr = c.once(ctx, in, payload, out)
		if lastErr == nil || !apperrors.IsRetryable(lastErr) || attempt == attempts-1 {
			break
		}
		delay := time.Duration(attempt+1) * 200 * time.Millisecond
		c.logger.DebugContext(ctx, "retrying api request",
			"method", in.method, "path", in.path, "attempt", attempt+1, "delay", delay, "error", lastErr)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.MapTransportError(ctx.Err())
		case <-timer.C:
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, in call, payload []byte, out any) error {
	req, err := c.newRequest(ctx, in, payload)
	if err != nil {
		return err
	}

	client := in.client
	if client == nil {
		client = c.anon
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, errNoCredential) {
			return &apperrors.AppError{Code: apperrors.ErrCodeUnauthorized, Message: "not signed in", Cause: err}
		}
		return apperrors.MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(in, resp)
	}
	return decodeBody(resp, out)
}

func (c *Client) newRequest(ctx context.Context, in call, payload []byte) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + in.path
	if len(in.query) > 0 {
		u.RawQuery = in.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", in.method, in.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) handleErrorResponse(in call, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	_, _ = io.Copy(io.Discard, resp.Body)

	apiErr := &apperrors.APIError{
		Method:     in.method,
		Path:       in.path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
	c.logger.Debug("api request failed",
		"method", in.method, "path", in.path, "status", resp.StatusCode,
		"request_id", resp.Request.Header.Get(requestIDHeader))
	return apperrors.FromHTTPStatus(apiErr)
}

func decodeBody(resp *http.Response, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return apperrors.MapTransportError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode api response")
	}
	return nil
}

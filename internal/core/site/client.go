// Package site is the HTTP client for the learning site's endpoints. It
// speaks the same protocol as the site's own scripts: form posts marked
// as XMLHttpRequest answered with JSON, and full pages whose markup may
// carry flash notifications.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/aula/internal/core/logging"
)

const (
	HeaderRequestedWith = "X-Requested-With"
	HeaderRequestID     = "X-Request-ID"
	requestedWithAJAX   = "XMLHttpRequest"

	DefaultTimeout      = 15 * time.Second
	DefaultLeadPath     = "/libro/"
	DefaultDownloadPath = "/download-chapter/"

	maxErrorBody = 512
)

// ErrUnexpectedResponse is returned when an endpoint that should answer with
// JSON answers with something else.
var ErrUnexpectedResponse = errors.New("unexpected response")

// StatusError reports a non-2xx response that carried no usable JSON body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	LeadPath     string
	DownloadPath string
	// HTTPClient overrides the transport. Its Jar is replaced when nil so
	// the session cookie survives between requests.
	HTTPClient *http.Client
}

// Client talks to one site. It keeps the session cookie the site uses to
// authorize downloads after a successful lead submission.
type Client struct {
	base   *url.URL
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.LeadPath == "" {
		cfg.LeadPath = DefaultLeadPath
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = DefaultDownloadPath
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	return &Client{
		base:   base,
		cfg:    cfg,
		http:   hc,
		logger: logging.Component("site"),
	}, nil
}

// BaseURL returns the site root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve turns a site path or absolute URL into an absolute URL.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", ref, err)
	}
	return c.base.ResolveReference(u).String(), nil
}

// do sends a request marked as coming from the site's scripts and tagged with
// a fresh request id.
func (c *Client) do(ctx context.Context, method, ref string, form url.Values) (*http.Response, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithPage(ctx, ref)

	req.Header.Set(HeaderRequestedWith, requestedWithAJAX)
	req.Header.Set(HeaderRequestID, requestID)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Ctx(ctx).Err(err).Str("method", method).Str("url", target).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	c.logger.Debug().Ctx(ctx).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	return resp, nil
}

// decodeJSON decodes a JSON answer regardless of status code; the site
// reports validation failures as 4xx responses with a JSON body.
func decodeJSON(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: HTTP %d with content type %q", ErrUnexpectedResponse,
			resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode HTTP %d body: %v", ErrUnexpectedResponse, resp.StatusCode, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// statusError builds a StatusError from a failed response, using the
// "error" field of a JSON body when there is one.
func statusError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if isJSON(resp.Header.Get("Content-Type")) {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: payload.Error}
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(raw))}
}

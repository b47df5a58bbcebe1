package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tr1v3r/pkg/log"

	"github.com/tr1v3r/mpvsub/internal/monitoring"
	"github.com/tr1v3r/mpvsub/internal/mpv"
	"github.com/tr1v3r/mpvsub/internal/subtitle"
)

const (
	controlPath        = "./mpv_control"
	controlContentType = "text/plain;charset=UTF-8"

	defaultTimeout = 30 * time.Second
)

// Client talks to a companion server.
type Client struct {
	base *url.URL
	hc   *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// New returns a Client resolving relative paths against baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	c := &Client{base: base, hc: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}
	return c.base.ResolveReference(u).String(), nil
}

// MPVControl posts {"command":[command, args...]} to the player's control
// endpoint and returns once the request settles. Failures are not reported.
// Cancelling ctx does not abort a request already started.
func (c *Client) MPVControl(ctx context.Context, command string, args ...any) {
	ctx = context.WithoutCancel(ctx)
	monitoring.GetMetrics().RecordCommandSent()

	body, err := json.Marshal(mpv.NewRequest(command, args...))
	if err != nil {
		log.CtxDebug(ctx, "mpv control %s: encode args: %v", command, err)
		return
	}
	target, err := c.resolve(controlPath)
	if err != nil {
		log.CtxDebug(ctx, "mpv control %s: %v", command, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		log.CtxDebug(ctx, "mpv control %s: create request: %v", command, err)
		return
	}
	req.Header.Set("Content-Type", controlContentType)

	resp, err := c.hc.Do(req)
	if err != nil {
		log.CtxDebug(ctx, "mpv control %s: %v", command, err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// FetchStubs downloads a JSON subtitle list and returns the cues cleaned by
// subtitle.Clean. A non-2xx answer is logged and yields an empty list.
// Transport and decode failures are returned.
func (c *Client) FetchStubs(ctx context.Context, rawURL string) ([]subtitle.Subtitle, error) {
	ctx = context.WithoutCancel(ctx)
	metrics := monitoring.GetMetrics()
	metrics.RecordSubtitleFetch()

	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.RecordSubtitleFetchError()
		return nil, fmt.Errorf("fetch subtitles from %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordSubtitleFetchError()
		log.CtxError(ctx, "Failed to fetch subtitles from %s: %s", target, resp.Status)
		_, _ = io.Copy(io.Discard, resp.Body)
		return []subtitle.Subtitle{}, nil
	}

	var subs []subtitle.Subtitle
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		metrics.RecordSubtitleFetchError()
		return nil, fmt.Errorf("decode subtitles from %s: %w", target, err)
	}
	return subtitle.Clean(subs), nil
}

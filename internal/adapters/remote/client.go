package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"infant-care-log/internal/engine"
	"infant-care-log/internal/platform/httpclient"
)

var (
	ErrStoreNotConfigured = errors.New("remote store not configured")
	ErrStoreUpstream      = errors.New("remote store upstream error")
)

// Config del store remoto (API REST estilo Firebase Realtime Database).
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client ejecuta los requests del motor contra el store. Cada colección vive
// en <base>/<collection>.json.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrStoreNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// NewWithHTTP permite inyectar el cliente (p.ej. con un transport de test).
func NewWithHTTP(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// Do implementa engine.Network. El body se devuelve sin decodificar: lo
// interpreta el agregador.
func (c *Client) Do(ctx context.Context, req engine.Request) (json.RawMessage, error) {
	if !c.IsConfigured() {
		return nil, ErrStoreNotConfigured
	}
	resource := strings.Trim(strings.TrimSpace(req.Resource), "/")
	if resource == "" {
		return nil, fmt.Errorf("%w: empty resource", ErrStoreUpstream)
	}
	path := "/" + resource + ".json"

	var raw json.RawMessage
	var err error
	switch req.Method {
	case engine.MethodRead:
		err = c.http.DoJSON(ctx, http.MethodGet, path, req.Query, nil, nil, &raw)
	case engine.MethodWrite:
		if req.Body == nil {
			return nil, fmt.Errorf("%w: write without body", ErrStoreUpstream)
		}
		err = c.http.DoJSON(ctx, http.MethodPost, path, nil, nil, req.Body, &raw)
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", ErrStoreUpstream, req.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrStoreUpstream, req.Method, path, err)
	}
	return raw, nil
}

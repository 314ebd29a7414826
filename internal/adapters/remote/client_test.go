package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"infant-care-log/internal/domain/events"
	"infant-care-log/internal/engine"
	"infant-care-log/internal/platform/httpclient"
)

func TestClient_ReadUsesFirebaseQuery(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"-a":{"type":"feeding","time":"2026-10-17T10:00:00.000Z"}}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	src := engine.TriggerSource{Resource: "events", Policy: engine.ReadPolicy{Mode: engine.ReadLimit, Limit: 50}}
	body, err := c.Do(context.Background(), src.Read(engine.Trigger{Kind: engine.TriggerStartup}))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotPath != "/events.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "orderBy=%22time%22") || !strings.Contains(gotQuery, "limitToLast=50") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	evs, _, err := engine.Decode(body)
	if err != nil || len(evs) != 1 {
		t.Fatalf("expected raw body to decode, got %v err=%v", evs, err)
	}
}

func TestClient_WritePostsEvent(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/events.json" {
			http.Error(w, "unexpected", http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(`{"name":"-k1"}`))
	}))
	defer ts.Close()

	c, _ := NewClient(Config{BaseURL: ts.URL})
	ev := events.Event{Type: events.EventTypeDiaper, Time: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC), Who: "olive", Poop: true}
	body, err := c.Do(context.Background(), engine.Request{Resource: "events", Method: engine.MethodWrite, Body: &ev})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(body) != `{"name":"-k1"}` {
		t.Fatalf("unexpected body %s", body)
	}
	if got["type"] != "diaper" || got["time"] != "2026-10-17T09:30:00.000Z" || got["poop"] != true || got["pee"] != false {
		t.Fatalf("unexpected posted event %v", got)
	}
}

func TestClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Permission denied"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, _ := NewClient(Config{BaseURL: ts.URL})
	_, err := c.Do(context.Background(), engine.Request{Resource: "events", Method: engine.MethodRead})
	if !errors.Is(err, ErrStoreUpstream) {
		t.Fatalf("expected ErrStoreUpstream, got %v", err)
	}
	var herr *httpclient.HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped HTTPError 401, got %v", err)
	}

	if _, err := c.Do(context.Background(), engine.Request{Resource: "events", Method: engine.MethodWrite}); !errors.Is(err, ErrStoreUpstream) {
		t.Fatalf("expected error for write without body, got %v", err)
	}

	if _, err := NewClient(Config{}); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
	var nilClient *Client
	if _, err := nilClient.Do(context.Background(), engine.Request{}); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured for nil client, got %v", err)
	}
}

func TestClient_InjectedTransport(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer ts.Close()

	hc := httpclient.NewWithTransport(time.Second, ts.Client().Transport)
	if c := NewWithHTTP(hc); c.IsConfigured() {
		t.Fatalf("client without base url must not be configured")
	}

	hc.BaseURL = ts.URL
	c := NewWithHTTP(hc)
	body, err := c.Do(context.Background(), engine.Request{Resource: "events", Method: engine.MethodRead})
	if err != nil {
		t.Fatalf("Do over TLS: %v", err)
	}
	evs, _, err := engine.Decode(body)
	if err != nil || len(evs) != 0 {
		t.Fatalf("expected empty collection, got %v err=%v", evs, err)
	}
}

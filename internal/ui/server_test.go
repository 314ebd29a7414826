package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"infant-care-log/internal/domain/events"
	"infant-care-log/internal/engine"
)

type fakeEngine struct {
	sampler *engine.Sampler
	builder *engine.CommandBuilder

	mu        sync.Mutex
	rec       engine.RenderRecord
	acted     []engine.Request
	refreshes int
}

func newFakeEngine(t *testing.T, rule engine.ShiftRule) *fakeEngine {
	t.Helper()
	s := engine.NewSampler(rule)
	b, err := engine.NewCommandBuilder("events", events.DefaultTemplates(), s, func() time.Time {
		return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	return &fakeEngine{sampler: s, builder: b}
}

func (f *fakeEngine) Act(ctx context.Context, action string) (engine.Request, error) {
	req, err := f.builder.Build(action)
	if err != nil {
		return engine.Request{}, err
	}
	f.mu.Lock()
	f.acted = append(f.acted, req)
	f.mu.Unlock()
	return req, nil
}

func (f *fakeEngine) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.refreshes++
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) SetTimeShift(raw int)            { f.sampler.SetTimeShiftRaw(raw) }
func (f *fakeEngine) SetToggle(name string, on bool)  { f.sampler.SetToggle(name, on) }
func (f *fakeEngine) Sampler() *engine.Sampler        { return f.sampler }
func (f *fakeEngine) Builder() *engine.CommandBuilder { return f.builder }

func (f *fakeEngine) actions() []engine.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Request(nil), f.acted...)
}

func (f *fakeEngine) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *fakeEngine) Latest() engine.RenderRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec
}

var _ Controller = (*engine.Engine)(nil)

func newServer(t *testing.T, fe *fakeEngine) *httptest.Server {
	t.Helper()
	h, err := NewRouter(Options{Engine: fe, Location: time.UTC})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return httptest.NewServer(h)
}

// noRedirect deja ver el 303 en lugar de seguirlo.
var noRedirect = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

func post(t *testing.T, baseURL, path string, form url.Values) int {
	t.Helper()
	res, err := noRedirect.PostForm(baseURL+path, form)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer res.Body.Close()
	return res.StatusCode
}

func get(t *testing.T, baseURL, path string) (int, string) {
	t.Helper()
	res, err := http.Get(baseURL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestIndex_LoadingThenHighlights(t *testing.T) {
	fe := newFakeEngine(t, engine.ShiftDirect)
	ts := newServer(t, fe)
	defer ts.Close()

	st, body := get(t, ts.URL, "/")
	if st != http.StatusOK || !strings.Contains(body, "Loading") || strings.Contains(body, "Refreshed at") {
		t.Fatalf("expected loading page, got %d\n%s", st, body)
	}
	for _, want := range []string{`formaction="/actions/feed"`, `name="poop"`, `name="pee"`, `min="-20"`, `max="20"`, `step="5"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in page\n%s", want, body)
		}
	}

	fe.mu.Lock()
	fe.rec = engine.RenderRecord{
		EventGroups: events.Groups{},
		ComposedAt:  time.Date(2026, 10, 17, 12, 34, 0, 0, time.UTC),
		Highlights: []engine.Highlight{
			{Label: "Feeding", Last: "1 min ago at 12:33", Next: "don't go past 15:33"},
			{Label: "Diaper", Last: "none"},
		},
	}
	fe.mu.Unlock()

	_, body = get(t, ts.URL, "/")
	for _, want := range []string{"Refreshed at 12:34", "1 min ago at 12:33", "don&#39;t go past 15:33", "<th>Diaper</th>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page\n%s", want, body)
		}
	}
}

func TestAct_AppliesControlsThenBuilds(t *testing.T) {
	fe := newFakeEngine(t, engine.ShiftDirect)
	ts := newServer(t, fe)
	defer ts.Close()

	st := post(t, ts.URL, "/actions/diaper", url.Values{
		"controls":  {"1"},
		"timeshift": {"-15"},
		"pee":       {"on"},
	})
	if st != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", st)
	}

	acted := fe.actions()
	if len(acted) != 1 {
		t.Fatalf("expected one action, got %d", len(acted))
	}
	ev := acted[0].Body
	if ev.Type != events.EventTypeDiaper || ev.Poop || !ev.Pee {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !ev.Time.Equal(time.Date(2026, 10, 17, 11, 45, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event time %v", ev.Time)
	}

	// Sin el marcador "controls" los toggles no se tocan.
	post(t, ts.URL, "/actions/feed", url.Values{})
	if !fe.sampler.Toggle("pee") || fe.sampler.TimeShift() != -15 {
		t.Fatalf("controls should hold their last value")
	}
}

func TestControlsAndErrors(t *testing.T) {
	fe := newFakeEngine(t, engine.ShiftNegated)
	ts := newServer(t, fe)
	defer ts.Close()

	if st := post(t, ts.URL, "/controls", url.Values{"controls": {"1"}, "timeshift": {"10"}, "poop": {"on"}}); st != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", st)
	}
	if fe.sampler.TimeShift() != -10 || !fe.sampler.Toggle("poop") {
		t.Fatalf("controls not applied: shift=%d", fe.sampler.TimeShift())
	}

	if st := post(t, ts.URL, "/controls", url.Values{"timeshift": {"25"}}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 out of range, got %d", st)
	}
	if st := post(t, ts.URL, "/actions/bath", url.Values{}); st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown action, got %d", st)
	}
	if st := post(t, ts.URL, "/refresh", nil); st != http.StatusSeeOther || fe.refreshCount() != 1 {
		t.Fatalf("expected refresh, got %d refreshes=%d", st, fe.refreshCount())
	}
}

func TestRenderJSON(t *testing.T) {
	fe := newFakeEngine(t, engine.ShiftDirect)
	fe.rec = engine.RenderRecord{
		EventGroups: events.GroupByType([]events.Event{
			{Type: events.EventTypeFeeding, Time: time.Date(2026, 10, 17, 11, 0, 0, 0, time.UTC), Who: "olive"},
		}),
		TimeShift: 5,
	}
	ts := newServer(t, fe)
	defer ts.Close()

	st, body := get(t, ts.URL, "/render.json")
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var out struct {
		EventGroups map[string][]map[string]any `json:"eventGroups"`
		TimeShift   int                         `json:"timeShift"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, body)
	}
	if out.TimeShift != 5 || len(out.EventGroups["feeding"]) != 1 || out.EventGroups["feeding"][0]["time"] != "2026-10-17T11:00:00.000Z" {
		t.Fatalf("unexpected render json %s", body)
	}
}

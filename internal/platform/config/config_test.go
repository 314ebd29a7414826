package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"infant-care-log/internal/engine"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(c.Actions) != 4 || c.Actions[3].Action != "diaper" {
		t.Fatalf("unexpected default actions: %+v", c.Actions)
	}
	p, err := c.ReadPolicy()
	if err != nil || p.Mode != engine.ReadLimit || p.Limit != 200 {
		t.Fatalf("unexpected read policy %+v err=%v", p, err)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
store:
  url: http://localhost:8080
  timeout: 3s
engine:
  read_policy: since
  read_since: "2026-10-01T00:00:00.000Z"
  tick_marker: 15
  shift_rule: negated
summary:
  coarse_after: 24h
  feeding_policy: window
  timezone: UTC
actions:
  - action: feed
    label: Feed
    type: feeding
    who: olive
  - action: vitamin-d
    label: Vitamin D
    type: medication
    name: vitamin-d
    who: andrea
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("UI_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if c.Store.URL != "http://localhost:8080" || c.Store.Timeout != 3*time.Second {
		t.Fatalf("unexpected store config %+v", c.Store)
	}
	if c.Store.Collection != "events" {
		t.Fatalf("expected default collection kept, got %q", c.Store.Collection)
	}
	if c.UI.Addr != ":9999" || c.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: ui=%q log=%q", c.UI.Addr, c.Log.Level)
	}
	if len(c.Actions) != 2 || c.Actions[1].Name != "vitamin-d" {
		t.Fatalf("unexpected actions %+v", c.Actions)
	}
	if c.ShiftRule() != engine.ShiftNegated {
		t.Fatalf("expected negated shift rule")
	}

	p, err := c.ReadPolicy()
	if err != nil {
		t.Fatalf("ReadPolicy error: %v", err)
	}
	if p.Mode != engine.ReadSince || !p.Since.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected read policy %+v", p)
	}

	opts, err := c.SummaryOptions()
	if err != nil {
		t.Fatalf("SummaryOptions error: %v", err)
	}
	if opts.Feeding != engine.FeedingWindow || opts.CoarseAfter != 24*time.Hour || opts.Location != time.UTC {
		t.Fatalf("unexpected summary options %+v", opts)
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(envMap(map[string]string{
		"STORE_URL":   "http://store:8080",
		"PORT":        "9090",
		"DB_DSN":      "postgres://localhost/dev",
		"TICK_MARKER": "30",
		"READ_LIMIT":  "50",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}
	if c.Store.URL != "http://store:8080" || c.DevStore.Addr != ":9090" || c.DevStore.DSN == "" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Engine.TickMarker != 30 || c.Engine.ReadLimit != 50 {
		t.Fatalf("unexpected engine config %+v", c.Engine)
	}

	bad := Default()
	if err := bad.ApplyEnv(envMap(map[string]string{"READ_LIMIT": "lots"})); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"no store url", func(c *Config) { c.Store.URL = "" }},
		{"marker", func(c *Config) { c.Engine.TickMarker = 60 }},
		{"no actions", func(c *Config) { c.Actions = nil }},
		{"medication without name", func(c *Config) { c.Actions[1].Name = "" }},
		{"shift range", func(c *Config) { c.UI.ShiftStep = 0 }},
		{"timezone", func(c *Config) { c.Summary.Timezone = "Mars/Olympus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	c := Default()
	c.Engine.ReadPolicy = "since"
	if _, err := c.ReadPolicy(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for since without date, got %v", err)
	}
}

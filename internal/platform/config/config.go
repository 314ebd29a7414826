package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"infant-care-log/internal/domain/events"
)

var ErrInvalidConfig = errors.New("invalid config")

type Store struct {
	URL        string        `yaml:"url"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Engine struct {
	// limit | since
	ReadPolicy string `yaml:"read_policy"`
	ReadLimit  int    `yaml:"read_limit"`
	// RFC3339; solo con read_policy=since
	ReadSince string `yaml:"read_since"`

	// Segundo del minuto en el que dispara la relectura periódica.
	TickMarker int `yaml:"tick_marker"`

	// direct | negated
	ShiftRule string `yaml:"shift_rule"`
}

type Summary struct {
	CoarseAfter time.Duration `yaml:"coarse_after"`

	// deadline | window
	FeedingPolicy string        `yaml:"feeding_policy"`
	Horizon       time.Duration `yaml:"horizon"`
	WindowFrom    time.Duration `yaml:"window_from"`
	WindowTo      time.Duration `yaml:"window_to"`

	// Nombre IANA para HH:MM; vacío = hora local.
	Timezone string `yaml:"timezone"`
}

type UI struct {
	Addr      string `yaml:"addr"`
	ShiftMin  int    `yaml:"shift_min"`
	ShiftMax  int    `yaml:"shift_max"`
	ShiftStep int    `yaml:"shift_step"`
}

type DevStore struct {
	Addr string `yaml:"addr"`
	// Postgres; vacío = en memoria
	DSN string `yaml:"dsn"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type Config struct {
	Store    Store             `yaml:"store"`
	Engine   Engine            `yaml:"engine"`
	Summary  Summary           `yaml:"summary"`
	Actions  []events.Template `yaml:"actions"`
	UI       UI                `yaml:"ui"`
	DevStore DevStore          `yaml:"devstore"`
	Log      Log               `yaml:"log"`
}

func Default() Config {
	return Config{
		Store: Store{
			URL:        "https://olive-the-things.firebaseio.com",
			Collection: "events",
			Timeout:    10 * time.Second,
		},
		Engine: Engine{
			ReadPolicy: "limit",
			ReadLimit:  200,
			TickMarker: 0,
			ShiftRule:  "direct",
		},
		Summary: Summary{
			CoarseAfter:   300 * time.Minute,
			FeedingPolicy: "deadline",
			Horizon:       3 * time.Hour,
			WindowFrom:    2 * time.Hour,
			WindowTo:      3 * time.Hour,
		},
		Actions: events.DefaultTemplates(),
		UI: UI{
			Addr:      ":8081",
			ShiftMin:  -20,
			ShiftMax:  20,
			ShiftStep: 5,
		},
		DevStore: DevStore{
			Addr: ":8080",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			App:    "infant-care-log",
		},
	}
}

// Load parte de Default, aplica el YAML (si path no es vacío) y luego las
// variables de entorno.
func Load(path string) (Config, error) {
	c := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyEnv pisa valores con variables de entorno:
// - STORE_URL, STORE_COLLECTION, STORE_TIMEOUT
// - READ_POLICY, READ_LIMIT, READ_SINCE, TICK_MARKER, SHIFT_RULE
// - FEEDING_POLICY, TZ_NAME
// - UI_ADDR
// - PORT (dev store, solo puerto), DB_DSN
// - LOG_LEVEL, LOG_FORMAT, APP_NAME
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	str("STORE_URL", &c.Store.URL)
	str("STORE_COLLECTION", &c.Store.Collection)
	if v := strings.TrimSpace(getenv("STORE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: STORE_TIMEOUT=%q", ErrInvalidConfig, v)
		}
		c.Store.Timeout = d
	}

	str("READ_POLICY", &c.Engine.ReadPolicy)
	if err := num("READ_LIMIT", &c.Engine.ReadLimit); err != nil {
		return err
	}
	str("READ_SINCE", &c.Engine.ReadSince)
	if err := num("TICK_MARKER", &c.Engine.TickMarker); err != nil {
		return err
	}
	str("SHIFT_RULE", &c.Engine.ShiftRule)

	str("FEEDING_POLICY", &c.Summary.FeedingPolicy)
	str("TZ_NAME", &c.Summary.Timezone)

	str("UI_ADDR", &c.UI.Addr)
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.DevStore.Addr = ":" + v
	}
	str("DB_DSN", &c.DevStore.DSN)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("APP_NAME", &c.Log.App)
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Store.URL) == "" {
		return fmt.Errorf("%w: store.url is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Store.Collection) == "" {
		return fmt.Errorf("%w: store.collection is required", ErrInvalidConfig)
	}
	if c.Engine.TickMarker < 0 || c.Engine.TickMarker > 59 {
		return fmt.Errorf("%w: engine.tick_marker must be 0-59", ErrInvalidConfig)
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf("%w: at least one action is required", ErrInvalidConfig)
	}
	for _, a := range c.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: action %q: %v", ErrInvalidConfig, a.Action, err)
		}
	}
	if c.UI.ShiftMin > c.UI.ShiftMax || c.UI.ShiftStep <= 0 {
		return fmt.Errorf("%w: ui shift range", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Summary.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Summary.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q", ErrInvalidConfig, c.Summary.Timezone)
	}
	return loc, nil
}

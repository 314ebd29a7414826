package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"infant-care-log/internal/engine"
	"infant-care-log/internal/middleware"
	"infant-care-log/internal/platform/logger"
)

// Controller es lo que la UI necesita del motor.
type Controller interface {
	Act(ctx context.Context, action string) (engine.Request, error)
	Refresh(ctx context.Context) error
	SetTimeShift(raw int)
	SetToggle(name string, on bool)
	Latest() engine.RenderRecord
	Sampler() *engine.Sampler
	Builder() *engine.CommandBuilder
}

type Options struct {
	Engine Controller

	// Opcional: se monta en /metrics.
	Metrics http.Handler

	Title       string
	Location    *time.Location
	AutoRefresh time.Duration

	ShiftMin  int
	ShiftMax  int
	ShiftStep int

	Log logger.Logger
}

type server struct {
	opts Options
	log  logger.Logger
}

// NewRouter traduce formularios HTML a entradas del motor y pinta el último
// RenderRecord.
func NewRouter(opts Options) (http.Handler, error) {
	if opts.Engine == nil {
		return nil, errors.New("ui: engine required")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Title == "" {
		opts.Title = "olive the things"
	}
	if opts.AutoRefresh <= 0 {
		opts.AutoRefresh = 30 * time.Second
	}
	if opts.ShiftStep <= 0 {
		opts.ShiftMin, opts.ShiftMax, opts.ShiftStep = -20, 20, 5
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &server{opts: opts, log: log.With(logger.Fields{"component": "ui"})}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Get("/", s.index)
	r.Get("/render.json", s.renderJSON)
	r.Post("/controls", s.controls)
	r.Post("/refresh", s.refresh)
	r.Post("/actions/{action}", s.act)

	return r, nil
}

func (s *server) index(w http.ResponseWriter, r *http.Request) {
	rec := s.opts.Engine.Latest()
	sampler := s.opts.Engine.Sampler()

	data := pageData{
		Title:       s.opts.Title,
		AutoRefresh: int(s.opts.AutoRefresh / time.Second),
		Loading:     rec.Loading(),
		Shift:       sampler.Rule().Raw(rec.TimeShift),
		ShiftMin:    s.opts.ShiftMin,
		ShiftMax:    s.opts.ShiftMax,
		ShiftStep:   s.opts.ShiftStep,
	}
	if !rec.Loading() {
		data.RefreshedAt = rec.ComposedAt.In(s.opts.Location).Format("15:04")
		data.Highlights = rec.Highlights
	}
	for _, t := range s.opts.Engine.Builder().Templates() {
		a := actionView{Action: t.Action, Label: t.Label}
		if a.Label == "" {
			a.Label = t.Action
		}
		for _, name := range t.Toggles {
			a.Toggles = append(a.Toggles, toggleView{Name: name, On: sampler.Toggle(name)})
		}
		data.Actions = append(data.Actions, a)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		s.log.Error("render page failed", logger.Fields{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) renderJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Engine.Latest())
}

func (s *server) controls(w http.ResponseWriter, r *http.Request) {
	if err := s.applyControls(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Engine.Refresh(r.Context()); err != nil {
		http.Error(w, "refresh failed", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// act aplica primero los controles que vengan en el formulario (mismo orden
// que si el usuario los cambiara antes del click) y luego dispara la acción.
func (s *server) act(w http.ResponseWriter, r *http.Request) {
	if err := s.applyControls(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	action := chi.URLParam(r, "action")
	req, err := s.opts.Engine.Act(r.Context(), action)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownAction) {
			http.Error(w, "unknown action", http.StatusNotFound)
			return
		}
		http.Error(w, "action failed", http.StatusServiceUnavailable)
		return
	}
	s.log.Info("action queued", logger.Fields{"action": action, "time": req.Body.Time})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyControls lee timeshift y los checkboxes. Un checkbox ausente solo
// significa false si el formulario trae el marcador "controls".
func (s *server) applyControls(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.New("invalid form")
	}

	if v := strings.TrimSpace(r.PostForm.Get("timeshift")); v != "" {
		raw, err := strconv.Atoi(v)
		if err != nil || raw < s.opts.ShiftMin || raw > s.opts.ShiftMax {
			return errors.New("timeshift out of range")
		}
		s.opts.Engine.SetTimeShift(raw)
	}

	if r.PostForm.Get("controls") == "" {
		return nil
	}
	for _, name := range s.toggleNames() {
		s.opts.Engine.SetToggle(name, r.PostForm.Get(name) != "")
	}
	return nil
}

func (s *server) toggleNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range s.opts.Engine.Builder().Templates() {
		for _, name := range t.Toggles {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

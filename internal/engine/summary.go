package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"infant-care-log/internal/domain/events"
)

const (
	SummaryNone = "none"
	SummaryNA   = "n/a"

	clockLayout = "15:04"
)

type FeedingPolicy string

const (
	// FeedingDeadline: "don't go past HH:MM" (última toma + Horizon).
	FeedingDeadline FeedingPolicy = "deadline"
	// FeedingWindow: "next feeding between HH:MM and HH:MM".
	FeedingWindow FeedingPolicy = "window"
)

func ParseFeedingPolicy(s string) FeedingPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "window":
		return FeedingWindow
	default:
		return FeedingDeadline
	}
}

type SummaryOptions struct {
	// Por encima de CoarseAfter el texto pasa a ser relativo ("5 hours ago").
	CoarseAfter time.Duration

	Feeding    FeedingPolicy
	Horizon    time.Duration
	WindowFrom time.Duration
	WindowTo   time.Duration

	// Zona para HH:MM. Default time.Local.
	Location *time.Location
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		CoarseAfter: 300 * time.Minute,
		Feeding:     FeedingDeadline,
		Horizon:     3 * time.Hour,
		WindowFrom:  2 * time.Hour,
		WindowTo:    3 * time.Hour,
		Location:    time.Local,
	}
}

// Summarizer calcula los textos derivados. Son funciones puras de los
// eventos y de now: no se cachea nada entre renders.
type Summarizer struct {
	opts SummaryOptions
}

func NewSummarizer(opts SummaryOptions) Summarizer {
	def := DefaultSummaryOptions()
	if opts.CoarseAfter <= 0 {
		opts.CoarseAfter = def.CoarseAfter
	}
	if opts.Feeding == "" {
		opts.Feeding = def.Feeding
	}
	if opts.Horizon <= 0 {
		opts.Horizon = def.Horizon
	}
	if opts.WindowFrom <= 0 {
		opts.WindowFrom = def.WindowFrom
	}
	if opts.WindowTo <= 0 {
		opts.WindowTo = def.WindowTo
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	return Summarizer{opts: opts}
}

func (s Summarizer) Options() SummaryOptions { return s.opts }

// LastEvent resume el evento más reciente de evs (ya ordenado).
func (s Summarizer) LastEvent(evs []events.Event, now time.Time) string {
	last, ok := events.Latest(evs)
	if !ok || last.Time.IsZero() {
		return SummaryNone
	}

	elapsed := now.Sub(last.Time)
	minutes := int(elapsed / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	at := last.Time.In(s.opts.Location).Format(clockLayout)
	if time.Duration(minutes)*time.Minute > s.opts.CoarseAfter {
		return fmt.Sprintf("%s ago at %s", Relative(elapsed), at)
	}
	return fmt.Sprintf("%s ago at %s", exact(minutes), at)
}

// NextFeeding usa la última toma de evs.
func (s Summarizer) NextFeeding(evs []events.Event) string {
	last, ok := events.Latest(evs)
	if !ok || last.Time.IsZero() {
		return SummaryNA
	}
	t := last.Time.In(s.opts.Location)
	switch s.opts.Feeding {
	case FeedingWindow:
		return fmt.Sprintf("next feeding between %s and %s",
			t.Add(s.opts.WindowFrom).Format(clockLayout),
			t.Add(s.opts.WindowTo).Format(clockLayout))
	default:
		return fmt.Sprintf("don't go past %s", t.Add(s.opts.Horizon).Format(clockLayout))
	}
}

func (s Summarizer) LastMedication(evs []events.Event, name string, now time.Time) string {
	return s.LastEvent(events.WithName(evs, name), now)
}

// exact: "H hr M min", omitiendo la parte que sea cero.
func exact(minutes int) string {
	h, m := minutes/60, minutes%60
	parts := make([]string, 0, 2)
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d hr", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m))
	}
	return strings.Join(parts, " ")
}

// Relative expresa d con los mismos cortes que moment.js fromNow.
func Relative(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	seconds := math.Round(d.Seconds())
	minutes := math.Round(seconds / 60)
	hours := math.Round(minutes / 60)
	days := math.Round(hours / 24)

	switch {
	case seconds < 45:
		return "a few seconds"
	case seconds < 90:
		return "a minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", int(minutes))
	case minutes < 90:
		return "an hour"
	case hours < 22:
		return fmt.Sprintf("%d hours", int(hours))
	case hours < 36:
		return "a day"
	case days < 26:
		return fmt.Sprintf("%d days", int(days))
	case days < 45:
		return "a month"
	case days < 320:
		return fmt.Sprintf("%d months", int(math.Round(days/30)))
	case days < 548:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int(math.Round(days/365)))
	}
}

package config

import (
	"fmt"
	"strings"

	"infant-care-log/internal/domain/events"
	"infant-care-log/internal/engine"
	"infant-care-log/internal/platform/logger"
)

func (c Config) ReadPolicy() (engine.ReadPolicy, error) {
	p := engine.ReadPolicy{
		Mode:  engine.ParseReadMode(c.Engine.ReadPolicy),
		Limit: c.Engine.ReadLimit,
	}
	if p.Mode == engine.ReadSince {
		since, err := events.ParseTime(strings.TrimSpace(c.Engine.ReadSince))
		if err != nil {
			return engine.ReadPolicy{}, fmt.Errorf("%w: engine.read_since: %v", ErrInvalidConfig, err)
		}
		p.Since = since
	}
	if err := p.Validate(); err != nil {
		return engine.ReadPolicy{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

func (c Config) SummaryOptions() (engine.SummaryOptions, error) {
	loc, err := c.Location()
	if err != nil {
		return engine.SummaryOptions{}, err
	}
	return engine.SummaryOptions{
		CoarseAfter: c.Summary.CoarseAfter,
		Feeding:     engine.ParseFeedingPolicy(c.Summary.FeedingPolicy),
		Horizon:     c.Summary.Horizon,
		WindowFrom:  c.Summary.WindowFrom,
		WindowTo:    c.Summary.WindowTo,
		Location:    loc,
	}, nil
}

func (c Config) ShiftRule() engine.ShiftRule { return engine.ParseShiftRule(c.Engine.ShiftRule) }

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.Log.Level),
		Format: logger.ParseFormat(c.Log.Format),
		App:    c.Log.App,
	}
}

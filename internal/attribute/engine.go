package attribute

import (
	"errors"
	"io"
	"log/slog"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Warning ties a scoring warning to the tour it concerns. TourID is 0 for
// catalog-wide warnings.
type Warning struct {
	TourID int64
	Err    error
}

// Engine recomputes derived scores on demand. It never runs on its own:
// callers decide when scores are refreshed.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{logger: logger}
}

// Recompute writes Popularity and ChildFriendliness onto every tour of
// catalog and returns the warnings raised on the way.
func (e *Engine) Recompute(catalog []*tour.Tour) []Warning {
	var warnings []Warning

	popularity, err := PopularityAll(catalog)
	if err != nil {
		e.logger.Warn("popularity defaults to zero", "tours", len(catalog), "reason", err)
		warnings = append(warnings, Warning{Err: err})
	}

	for i, t := range catalog {
		if t == nil {
			continue
		}
		t.Popularity = popularity[i]

		cf, err := ChildFriendliness(t)
		if err != nil {
			e.logger.Warn("child-friendliness defaults to zero", "tour_id", t.ID, "reason", err)
			warnings = append(warnings, Warning{TourID: t.ID, Err: err})
		}
		t.ChildFriendliness = cf
	}

	e.logger.Debug("attributes recomputed", "tours", len(catalog), "warnings", len(warnings))
	return warnings
}

// HasWarning reports whether any warning wraps target.
func HasWarning(warnings []Warning, target error) bool {
	for _, w := range warnings {
		if errors.Is(w.Err, target) {
			return true
		}
	}
	return false
}

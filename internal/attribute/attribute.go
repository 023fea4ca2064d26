// Package attribute derives popularity and child-friendliness scores from a
// tour's log history.
//
// The scoring functions are pure and deterministic. Engine wraps them to
// write the results back onto tours and to report warnings.
package attribute

import (
	"errors"
	"math"
	"time"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Warnings. Both accompany a valid score of 0; they are not failures.
var (
	// ErrNoCatalogLogs is returned when the catalog is empty or no tour in it
	// has a log, so popularity is 0 everywhere.
	ErrNoCatalogLogs = errors.New("no logs in catalog")

	// ErrNoLogs is returned when a tour has no logs to score.
	ErrNoLogs = errors.New("tour has no logs")
)

// Child-friendliness weights. They sum to 1.
const (
	DifficultyWeight = 0.5
	DistanceWeight   = 0.2
	DurationWeight   = 0.3
)

// Falloff limits: a log at or beyond these scores 0 on that axis.
const (
	MaxChildDistanceKm = 5.0
	MaxChildMinutes    = 120.0
)

// Popularity returns logCount(t) relative to the largest log count in catalog,
// scaled to 0..100. The catalog should contain t.
//
// When no tour in catalog has a log it returns 0 and ErrNoCatalogLogs.
// Because the score is catalog-relative, adding a log to any tour can change
// every other tour's popularity.
func Popularity(t *tour.Tour, catalog []*tour.Tour) (float64, error) {
	maxLogs := maxLogCount(catalog)
	if maxLogs == 0 {
		return 0, ErrNoCatalogLogs
	}
	return float64(len(t.Logs)) / float64(maxLogs) * 100, nil
}

// PopularityAll scores every tour of catalog. The result is index-aligned
// with catalog.
func PopularityAll(catalog []*tour.Tour) ([]float64, error) {
	scores := make([]float64, len(catalog))
	maxLogs := maxLogCount(catalog)
	if maxLogs == 0 {
		return scores, ErrNoCatalogLogs
	}
	for i, t := range catalog {
		scores[i] = float64(len(t.Logs)) / float64(maxLogs) * 100
	}
	return scores, nil
}

func maxLogCount(catalog []*tour.Tour) int {
	maxLogs := 0
	for _, t := range catalog {
		if t != nil && len(t.Logs) > maxLogs {
			maxLogs = len(t.Logs)
		}
	}
	return maxLogs
}

// ChildFriendliness averages LogScore over the tour's logs and scales the
// mean to 0..100. A tour without logs scores 0 with ErrNoLogs.
func ChildFriendliness(t *tour.Tour) (float64, error) {
	if len(t.Logs) == 0 {
		return 0, ErrNoLogs
	}
	var sum float64
	for i := range t.Logs {
		sum += LogScore(t.Logs[i])
	}
	return clamp(sum/float64(len(t.Logs))*100, 0, 100), nil
}

// LogScore combines the three sub-scores of one log into 0..1.
func LogScore(l tour.Log) float64 {
	return DifficultyWeight*DifficultyScore(l.Difficulty) +
		DistanceWeight*DistanceScore(l.DistanceTraveled) +
		DurationWeight*DurationScore(l.TimeTaken)
}

// DifficultyScore maps difficulty 0..5 onto 1..0; out-of-range input is clamped.
func DifficultyScore(difficulty int) float64 {
	d := clamp(float64(difficulty), 0, tour.MaxDifficulty)
	return (tour.MaxDifficulty - d) / tour.MaxDifficulty
}

// DistanceScore falls off linearly from 1 at 0 km to 0 at MaxChildDistanceKm.
func DistanceScore(km float64) float64 {
	if km <= 0 {
		return 1
	}
	return math.Max(0, 1-km/MaxChildDistanceKm)
}

// DurationScore falls off linearly from 1 at zero to 0 at MaxChildMinutes.
func DurationScore(d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return math.Max(0, 1-d.Minutes()/MaxChildMinutes)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

package testutil

import (
	"time"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// FixtureTime is the base timestamp used by fixture logs.
var FixtureTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// NewTour returns an unpersisted tour with sensible defaults and the given
// logs.
func NewTour(name string, logs ...tour.Log) *tour.Tour {
	return &tour.Tour{
		Name:          name,
		Description:   name + " description",
		StartLocation: "Vienna",
		EndLocation:   "Krems",
		TransportType: tour.TransportBicycle,
		Distance:      42,
		EstimatedTime: 180,
		Logs:          logs,
	}
}

// NewLog returns an unpersisted log whose timestamp is offset by n hours
// from FixtureTime.
func NewLog(n int, comment string) tour.Log {
	return tour.Log{
		TimeStamp:        FixtureTime.Add(time.Duration(n) * time.Hour),
		Comment:          comment,
		Difficulty:       2,
		DistanceTraveled: 3.5,
		TimeTaken:        45 * time.Minute,
		Rating:           4,
	}
}

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// createTestLog creates a log with minimal required fields.
func createTestLog(comment string, rating float64) tour.Log {
	return tour.Log{
		TimeStamp:        testTime,
		Comment:          comment,
		Difficulty:       3,
		DistanceTraveled: 4.2,
		TimeTaken:        95 * time.Minute,
		Rating:           rating,
	}
}

// createTestTour creates an unpersisted tour with the given logs.
func createTestTour(name string, logs ...tour.Log) *tour.Tour {
	return &tour.Tour{
		Name:             name,
		Description:      "along the river",
		StartLocation:    "Melk",
		EndLocation:      "Krems",
		TransportType:    tour.TransportRoadBike,
		Distance:         36.4,
		EstimatedTime:    150,
		StartCoordinates: &tour.Coordinates{Latitude: 48.2275, Longitude: 15.3317},
		Logs:             logs,
	}
}

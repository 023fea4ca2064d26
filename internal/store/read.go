package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

const tourColumns = `
	id, name, description, start_location, end_location, transport_type, distance, estimated_time,
	start_latitude, start_longitude, end_latitude, end_longitude,
	popularity, child_friendliness, ai_summary`

const logColumns = `
	id, tour_id, time_stamp, comment, difficulty, distance_traveled, time_taken_ms, rating`

// GetTourByID returns the tour with its logs in creation order.
//
// Returns a NotFound *tour.Error if no tour has id.
func (q queries) GetTourByID(ctx context.Context, id int64) (*tour.Tour, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = ?`, id)

	t, err := scanTour(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tour.NewTourNotFound("get tour", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}

	logs, err := q.ListLogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}
	t.Logs = logs
	return t, nil
}

// ListTours returns every tour with its logs, ordered by id.
//
// Returns an empty slice (not nil) for an empty catalog.
func (q queries) ListTours(ctx context.Context) ([]*tour.Tour, error) {
	rows, err := q.q.QueryContext(ctx, `SELECT `+tourColumns+` FROM tours ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tours: %w", err)
	}
	defer rows.Close()

	tours := []*tour.Tour{}
	byID := make(map[int64]*tour.Tour)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		t.Logs = []tour.Log{}
		tours = append(tours, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tours: %w", err)
	}

	// One pass over all logs instead of one query per tour.
	logRows, err := q.q.QueryContext(ctx, `SELECT `+logColumns+` FROM tour_logs ORDER BY tour_id ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer logRows.Close()

	for logRows.Next() {
		tourID, l, err := scanLog(logRows)
		if err != nil {
			return nil, err
		}
		if t, ok := byID[tourID]; ok {
			t.Logs = append(t.Logs, l)
		}
	}
	if err := logRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}

	return tours, nil
}

// ListLogs returns the logs of one tour in creation order.
//
// Returns an empty slice (not nil) if the tour has no logs or does not exist.
func (q queries) ListLogs(ctx context.Context, tourID int64) ([]tour.Log, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM tour_logs
		WHERE tour_id = ?
		ORDER BY id ASC
	`, tourID)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []tour.Log{}
	for rows.Next() {
		_, l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// GetLogByID returns a single log.
//
// Returns a NotFound *tour.Error if no log has id.
func (q queries) GetLogByID(ctx context.Context, id int64) (tour.Log, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+logColumns+` FROM tour_logs WHERE id = ?`, id)

	_, l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tour.Log{}, tour.NewLogNotFound("get log", id)
	}
	if err != nil {
		return tour.Log{}, fmt.Errorf("get log: %w", err)
	}
	return l, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTour(sc scanner) (*tour.Tour, error) {
	var (
		t                  tour.Tour
		transport          string
		startLat, startLon sql.NullFloat64
		endLat, endLon     sql.NullFloat64
	)
	err := sc.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.StartLocation,
		&t.EndLocation,
		&transport,
		&t.Distance,
		&t.EstimatedTime,
		&startLat, &startLon,
		&endLat, &endLon,
		&t.Popularity,
		&t.ChildFriendliness,
		&t.AISummary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan tour: %w", err)
	}

	t.TransportType = tour.TransportType(transport)
	t.StartCoordinates = coordFromNull(startLat, startLon)
	t.EndCoordinates = coordFromNull(endLat, endLon)
	return &t, nil
}

func scanLog(sc scanner) (int64, tour.Log, error) {
	var (
		l         tour.Log
		tourID    int64
		timeStamp string
		takenMS   int64
	)
	err := sc.Scan(
		&l.ID,
		&tourID,
		&timeStamp,
		&l.Comment,
		&l.Difficulty,
		&l.DistanceTraveled,
		&takenMS,
		&l.Rating,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, tour.Log{}, err
	}
	if err != nil {
		return 0, tour.Log{}, fmt.Errorf("scan log: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, timeStamp)
	if err != nil {
		return 0, tour.Log{}, fmt.Errorf("scan log %d: parse time_stamp: %w", l.ID, err)
	}
	l.TimeStamp = ts
	l.TimeTaken = time.Duration(takenMS) * time.Millisecond
	return tourID, l, nil
}

func coordFromNull(lat, lon sql.NullFloat64) *tour.Coordinates {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &tour.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
}

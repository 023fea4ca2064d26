package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// CreateTour inserts t and all of its logs in one transaction.
// Ids already set on t or its logs are ignored.
//
// Returns a copy of t carrying the assigned tour and log ids.
func (s *Store) CreateTour(ctx context.Context, t *tour.Tour) (*tour.Tour, error) {
	created := t.Clone()
	err := s.RunInTx(ctx, func(tx *Tx) error {
		id, err := tx.insertTour(ctx, created)
		if err != nil {
			return err
		}
		created.ID = id

		for i := range created.Logs {
			l, err := tx.insertLog(ctx, id, created.Logs[i])
			if err != nil {
				return err
			}
			created.Logs[i] = l
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	return created, nil
}

func (q queries) insertTour(ctx context.Context, t *tour.Tour) (int64, error) {
	startLat, startLon := coordArgs(t.StartCoordinates)
	endLat, endLon := coordArgs(t.EndCoordinates)

	result, err := q.q.ExecContext(ctx, `
		INSERT INTO tours
		(name, description, start_location, end_location, transport_type, distance, estimated_time,
		 start_latitude, start_longitude, end_latitude, end_longitude,
		 popularity, child_friendliness, ai_summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.Name,
		t.Description,
		t.StartLocation,
		t.EndLocation,
		string(t.TransportType),
		t.Distance,
		t.EstimatedTime,
		startLat, startLon,
		endLat, endLon,
		t.Popularity,
		t.ChildFriendliness,
		t.AISummary,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tour: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert tour: last insert id: %w", err)
	}
	return id, nil
}

// CommitTourFields stores every scalar field of t, derived fields included.
// The tour's logs are not touched.
//
// Returns a NotFound *tour.Error if no tour has t.ID.
func (q queries) CommitTourFields(ctx context.Context, t *tour.Tour) error {
	startLat, startLon := coordArgs(t.StartCoordinates)
	endLat, endLon := coordArgs(t.EndCoordinates)

	result, err := q.q.ExecContext(ctx, `
		UPDATE tours SET
			name = ?, description = ?, start_location = ?, end_location = ?,
			transport_type = ?, distance = ?, estimated_time = ?,
			start_latitude = ?, start_longitude = ?, end_latitude = ?, end_longitude = ?,
			popularity = ?, child_friendliness = ?, ai_summary = ?
		WHERE id = ?
	`,
		t.Name,
		t.Description,
		t.StartLocation,
		t.EndLocation,
		string(t.TransportType),
		t.Distance,
		t.EstimatedTime,
		startLat, startLon,
		endLat, endLon,
		t.Popularity,
		t.ChildFriendliness,
		t.AISummary,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("commit tour fields: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("commit tour fields: rows affected: %w", err)
	}
	if n == 0 {
		return tour.NewTourNotFound("commit tour fields", t.ID)
	}
	return nil
}

// DeleteTour removes a tour and, through the foreign key cascade, its logs.
// Returns false if the tour did not exist.
func (q queries) DeleteTour(ctx context.Context, id int64) (bool, error) {
	result, err := q.q.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete tour: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tour: rows affected: %w", err)
	}
	return n > 0, nil
}

// CreateLog inserts log under tour tourID and returns it with its new id.
// Any id already set on log is ignored.
//
// Returns a NotFound *tour.Error if the tour does not exist.
func (q queries) CreateLog(ctx context.Context, tourID int64, log tour.Log) (tour.Log, error) {
	var exists int
	err := q.q.QueryRowContext(ctx, `SELECT 1 FROM tours WHERE id = ?`, tourID).Scan(&exists)
	if err == sql.ErrNoRows {
		return tour.Log{}, tour.NewTourNotFound("create log", tourID)
	}
	if err != nil {
		return tour.Log{}, fmt.Errorf("create log: %w", err)
	}

	return q.insertLog(ctx, tourID, log)
}

func (q queries) insertLog(ctx context.Context, tourID int64, log tour.Log) (tour.Log, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO tour_logs
		(tour_id, time_stamp, comment, difficulty, distance_traveled, time_taken_ms, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		tourID,
		formatTime(log.TimeStamp),
		log.Comment,
		log.Difficulty,
		log.DistanceTraveled,
		log.TimeTaken.Milliseconds(),
		log.Rating,
	)
	if err != nil {
		return tour.Log{}, fmt.Errorf("insert log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return tour.Log{}, fmt.Errorf("insert log: last insert id: %w", err)
	}
	log.ID = id
	return log, nil
}

// UpdateLog overwrites the stored log with the same id. The owning tour does
// not change.
//
// Returns a NotFound *tour.Error if no log has log.ID.
func (q queries) UpdateLog(ctx context.Context, log tour.Log) (tour.Log, error) {
	result, err := q.q.ExecContext(ctx, `
		UPDATE tour_logs SET
			time_stamp = ?, comment = ?, difficulty = ?,
			distance_traveled = ?, time_taken_ms = ?, rating = ?
		WHERE id = ?
	`,
		formatTime(log.TimeStamp),
		log.Comment,
		log.Difficulty,
		log.DistanceTraveled,
		log.TimeTaken.Milliseconds(),
		log.Rating,
		log.ID,
	)
	if err != nil {
		return tour.Log{}, fmt.Errorf("update log: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return tour.Log{}, fmt.Errorf("update log: rows affected: %w", err)
	}
	if n == 0 {
		return tour.Log{}, tour.NewLogNotFound("update log", log.ID)
	}
	return log, nil
}

// DeleteLog removes a log. Returns false if it did not exist.
func (q queries) DeleteLog(ctx context.Context, id int64) (bool, error) {
	result, err := q.q.ExecContext(ctx, `DELETE FROM tour_logs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete log: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete log: rows affected: %w", err)
	}
	return n > 0, nil
}

func coordArgs(c *tour.Coordinates) (lat, lon sql.NullFloat64) {
	if c == nil {
		return lat, lon
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true},
		sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

// formatTime stores timestamps as UTC RFC 3339 text so they sort lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

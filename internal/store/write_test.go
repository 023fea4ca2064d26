package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

func TestCreateTour_AssignsIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := createTestTour("Wachau", createTestLog("misty", 4), createTestLog("sunny", 5))
	in.Logs[0].ID = 99

	created, err := s.CreateTour(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	require.Len(t, created.Logs, 2)
	assert.Equal(t, int64(1), created.Logs[0].ID, "caller ids are ignored")
	assert.Equal(t, int64(2), created.Logs[1].ID)
	assert.Equal(t, int64(0), in.ID, "input is not modified")
}

func TestCreateTour_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := createTestTour("Wachau", createTestLog("misty", 4))
	in.Popularity = 75
	in.ChildFriendliness = 40
	in.AISummary = "Flat river ride"

	created, err := s.CreateTour(ctx, in)
	require.NoError(t, err)

	got, err := s.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Nil(t, got.EndCoordinates)
	require.NotNil(t, got.StartCoordinates)
	assert.Equal(t, 48.2275, got.StartCoordinates.Latitude)
}

func TestCommitTourFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTour(ctx, createTestTour("Wachau", createTestLog("misty", 4)))
	require.NoError(t, err)

	created.Name = "Wachau loop"
	created.TransportType = tour.TransportEBicycle
	created.EndCoordinates = &tour.Coordinates{Latitude: 48.41, Longitude: 15.6}
	created.StartCoordinates = nil
	created.Popularity = 100
	created.Logs = nil

	require.NoError(t, s.CommitTourFields(ctx, created))

	got, err := s.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wachau loop", got.Name)
	assert.Equal(t, tour.TransportEBicycle, got.TransportType)
	assert.Nil(t, got.StartCoordinates)
	assert.NotNil(t, got.EndCoordinates)
	assert.Equal(t, 100.0, got.Popularity)
	assert.Len(t, got.Logs, 1, "logs are not touched")
}

func TestCommitTourFields_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.CommitTourFields(context.Background(), &tour.Tour{ID: 42, Name: "ghost"})

	assert.True(t, tour.IsNotFound(err))
}

func TestDeleteTour_CascadesToLogs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTour(ctx, createTestTour("Wachau", createTestLog("a", 3), createTestLog("b", 4)))
	require.NoError(t, err)

	ok, err := s.DeleteTour(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM tour_logs").Scan(&count))
	assert.Equal(t, 0, count)

	ok, err = s.DeleteTour(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogLifecycle(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTour(ctx, createTestTour("Wachau"))
	require.NoError(t, err)

	l, err := s.CreateLog(ctx, created.ID, createTestLog("first", 3))
	require.NoError(t, err)
	assert.Positive(t, l.ID)

	l.Comment = "edited"
	l.Rating = 5
	_, err = s.UpdateLog(ctx, l)
	require.NoError(t, err)

	got, err := s.GetLogByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	ok, err := s.DeleteLog(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteLog(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports absence")

	_, err = s.GetLogByID(ctx, l.ID)
	assert.True(t, tour.IsNotFound(err))
}

func TestCreateLog_UnknownTour(t *testing.T) {
	s := createTestStore(t)

	_, err := s.CreateLog(context.Background(), 7, createTestLog("orphan", 1))

	assert.True(t, tour.IsNotFound(err))
}

func TestUpdateLog_NotFound(t *testing.T) {
	s := createTestStore(t)

	l := createTestLog("ghost", 1)
	l.ID = 13
	_, err := s.UpdateLog(context.Background(), l)

	assert.True(t, tour.IsNotFound(err))
}

func TestLogIDsAreNotReused(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTour(ctx, createTestTour("Wachau", createTestLog("a", 3)))
	require.NoError(t, err)

	_, err = s.DeleteLog(ctx, created.Logs[0].ID)
	require.NoError(t, err)

	l, err := s.CreateLog(ctx, created.ID, createTestLog("b", 3))
	require.NoError(t, err)
	assert.Greater(t, l.ID, created.Logs[0].ID)
}

func TestRunInTx_Commits(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTour(ctx, createTestTour("Wachau", createTestLog("a", 3)))
	require.NoError(t, err)

	err = s.RunInTx(ctx, func(tx *Tx) error {
		if _, err := tx.DeleteLog(ctx, created.Logs[0].ID); err != nil {
			return err
		}
		_, err := tx.CreateLog(ctx, created.ID, createTestLog("b", 5))
		return err
	})
	require.NoError(t, err)

	logs, err := s.ListLogs(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].Comment)
}

func TestRunInTx_RollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	created, err := s.CreateTour(ctx, createTestTour("Wachau", createTestLog("a", 3)))
	require.NoError(t, err)

	err = s.RunInTx(ctx, func(tx *Tx) error {
		if _, err := tx.DeleteLog(ctx, created.Logs[0].ID); err != nil {
			return err
		}
		created.Name = "renamed"
		if err := tx.CommitTourFields(ctx, created); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wachau", got.Name)
	assert.Len(t, got.Logs, 1)
}

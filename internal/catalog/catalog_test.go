package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Davimalu/TourPlanner-sub000/internal/attribute"
	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/reconcile"
	"github.com/Davimalu/TourPlanner-sub000/internal/search"
	"github.com/Davimalu/TourPlanner-sub000/internal/store"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

type harness struct {
	store   *store.Store
	bus     *eventbus.Bus
	view    *View
	service *Service
}

func newHarness(t *testing.T, opts ...ServiceOption) *harness {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	bus := eventbus.New(nil)
	view := NewView(bus, search.New(search.NewLocale(language.German)), nil)
	t.Cleanup(view.Close)

	opts = append([]ServiceOption{WithOpIDs(&reconcile.SequenceGenerator{Prefix: "test"})}, opts...)
	return &harness{
		store:   st,
		bus:     bus,
		view:    view,
		service: NewService(st, bus, nil, opts...),
	}
}

func sampleTour(name string, transport tour.TransportType, distance float64, logs ...tour.Log) *tour.Tour {
	return &tour.Tour{
		Name:          name,
		Description:   name + " route",
		StartLocation: "Wien",
		EndLocation:   "Tulln",
		TransportType: transport,
		Distance:      distance,
		EstimatedTime: 90,
		Logs:          logs,
	}
}

func sampleLog(comment string, difficulty int, minutes int) tour.Log {
	return tour.Log{
		TimeStamp:        time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Comment:          comment,
		Difficulty:       difficulty,
		DistanceTraveled: 3,
		TimeTaken:        time.Duration(minutes) * time.Minute,
		Rating:           4,
	}
}

func TestView_StartsEmpty(t *testing.T) {
	h := newHarness(t)

	assert.Empty(t, h.view.Tours())
	assert.Empty(t, h.view.Filtered())
	assert.Nil(t, h.view.Selected())
}

func TestService_AddPublishesCatalog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5, sampleLog("windig", 2, 60)))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	require.Len(t, h.view.Tours(), 1)
	assert.Equal(t, created.ID, h.view.Tours()[0].ID)
	assert.Len(t, h.view.Filtered(), 1)
}

func TestService_AddRejectsInvalidTour(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Add(context.Background(), sampleTour("", tour.TransportBicycle, 1))

	assert.True(t, tour.IsValidation(err))
	assert.Empty(t, h.view.Tours())
}

func TestView_FiltersOnQueryWithLocale(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5))
	require.NoError(t, err)
	_, err = h.service.Add(ctx, sampleTour("Kahlenberg", tour.TransportHiking, 8))
	require.NoError(t, err)

	h.service.Search("12,5")
	require.Len(t, h.view.Filtered(), 1)
	assert.Equal(t, "Donauradweg", h.view.Filtered()[0].Name)
	assert.Equal(t, "12,5", h.view.Query())

	h.service.Search("wandern")
	require.Len(t, h.view.Filtered(), 1)
	assert.Equal(t, "Kahlenberg", h.view.Filtered()[0].Name)

	h.service.Search("")
	assert.Len(t, h.view.Filtered(), 2)
}

func TestView_QuerySurvivesCatalogReload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.service.Search("kahlen")
	_, err := h.service.Add(ctx, sampleTour("Kahlenberg", tour.TransportHiking, 8))
	require.NoError(t, err)
	_, err = h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5))
	require.NoError(t, err)

	assert.Len(t, h.view.Tours(), 2)
	require.Len(t, h.view.Filtered(), 1)
	assert.Equal(t, "Kahlenberg", h.view.Filtered()[0].Name)
}

func TestService_SynchronizeUpdatesView(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5, sampleLog("windig", 2, 60)))
	require.NoError(t, err)
	h.service.Select(created)

	snapshot := created.Clone()
	snapshot.Name = "Donauradweg Ost"
	snapshot.Logs = append(snapshot.Logs, sampleLog("sonnig", 1, 50))

	res, err := h.service.Synchronize(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, "test-1", res.OpID)
	require.Len(t, res.Created, 1)

	require.Len(t, h.view.Tours(), 1)
	assert.Equal(t, "Donauradweg Ost", h.view.Tours()[0].Name)
	assert.Len(t, h.view.Tours()[0].Logs, 2)
	require.NotNil(t, h.view.Selected())
	assert.Equal(t, "Donauradweg Ost", h.view.Selected().Name)

	stored, err := h.store.GetTourByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Logs, 2)
}

func TestService_SynchronizeNotFound(t *testing.T) {
	h := newHarness(t)
	snapshot := sampleTour("Ghost", tour.TransportCar, 1)
	snapshot.ID = 77

	_, err := h.service.Synchronize(context.Background(), snapshot)

	assert.True(t, tour.IsNotFound(err))
}

func TestService_SynchronizeAtomic(t *testing.T) {
	h := newHarness(t, WithAtomicSync(true))
	ctx := context.Background()

	created, err := h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5,
		sampleLog("a", 2, 60), sampleLog("b", 3, 70)))
	require.NoError(t, err)

	snapshot := created.Clone()
	snapshot.Logs = []tour.Log{snapshot.Logs[1], sampleLog("c", 1, 30)}

	res, err := h.service.Synchronize(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, []int64{created.Logs[0].ID}, res.Deleted)
	assert.Len(t, res.Created, 1)

	logs, err := h.store.ListLogs(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[0].Comment)
	assert.Equal(t, "c", logs[1].Comment)
}

func TestService_DeleteRemovesFromView(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.service.Add(ctx, sampleTour("Donauradweg", tour.TransportBicycle, 12.5))
	require.NoError(t, err)
	h.service.Select(created)

	require.NoError(t, h.service.Delete(ctx, created.ID))
	assert.Empty(t, h.view.Tours())
	assert.Nil(t, h.view.Selected(), "selection cleared when the tour disappears")

	err = h.service.Delete(ctx, created.ID)
	assert.True(t, tour.IsNotFound(err))
}

func TestService_ScorePersistsAndPublishes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, err := h.service.Add(ctx, sampleTour("A", tour.TransportWalking, 2,
		sampleLog("x", 0, 30), sampleLog("y", 0, 30)))
	require.NoError(t, err)
	b, err := h.service.Add(ctx, sampleTour("B", tour.TransportCar, 80, sampleLog("z", 5, 300)))
	require.NoError(t, err)
	_, err = h.service.Add(ctx, sampleTour("C", tour.TransportCar, 10))
	require.NoError(t, err)

	tours, warnings, err := h.service.Score(ctx)
	require.NoError(t, err)
	require.Len(t, tours, 3)
	assert.True(t, attribute.HasWarning(warnings, attribute.ErrNoLogs))

	storedA, err := h.store.GetTourByID(ctx, a.ID)
	require.NoError(t, err)
	storedB, err := h.store.GetTourByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, storedA.Popularity)
	assert.Equal(t, 50.0, storedB.Popularity)
	assert.Greater(t, storedA.ChildFriendliness, storedB.ChildFriendliness)

	require.Len(t, h.view.Tours(), 3)
	assert.Equal(t, 100.0, h.view.Tours()[0].Popularity)
}

func TestView_CloseDetaches(t *testing.T) {
	h := newHarness(t)

	h.view.Close()
	h.view.Close()
	h.service.Search("anything")

	assert.Equal(t, "", h.view.Query())
	assert.Equal(t, 0, eventbus.SubscriberCount[eventbus.ToursChanged](h.bus))
}

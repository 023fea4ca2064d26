// Package catalog ties the tour store, the event bus, the search index, the
// attribute engine and the synchronizer together.
//
// View is the read side: it listens on the bus and keeps the last published
// tour list, the active query and the filtered result. Service is the write
// side: it performs store operations and publishes what changed.
package catalog

import (
	"io"
	"log/slog"

	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/search"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// View mirrors the catalog state published on a bus.
type View struct {
	bus    *eventbus.Bus
	index  *search.Index
	logger *slog.Logger
	subs   []*eventbus.Subscription

	tours    []*tour.Tour
	query    string
	filtered []*tour.Tour
	selected *tour.Tour
}

// NewView subscribes a view to bus. Call Close to detach it.
func NewView(bus *eventbus.Bus, index *search.Index, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if index == nil {
		index = search.New(nil)
	}
	v := &View{
		bus:    bus,
		index:  index,
		logger: logger,
		tours:  []*tour.Tour{},
	}
	v.filtered = v.tours

	v.subs = append(v.subs,
		eventbus.Subscribe(bus, v.onToursChanged),
		eventbus.Subscribe(bus, v.onSearchQueryChanged),
		eventbus.Subscribe(bus, v.onSelectedTourChanged),
		eventbus.Subscribe(bus, v.onTourSynchronized),
		eventbus.Subscribe(bus, v.onAttributesRecomputed),
	)
	return v
}

// Close removes every subscription of the view. It is safe to call twice.
func (v *View) Close() {
	for _, sub := range v.subs {
		v.bus.Unsubscribe(sub)
	}
	v.subs = nil
}

// Tours returns the last published tour list.
func (v *View) Tours() []*tour.Tour { return v.tours }

// Query returns the active search query.
func (v *View) Query() string { return v.query }

// Filtered returns the tours matching the active query. With an empty query
// it is the full list.
func (v *View) Filtered() []*tour.Tour { return v.filtered }

// Selected returns the selected tour, or nil.
func (v *View) Selected() *tour.Tour { return v.selected }

func (v *View) onToursChanged(ev eventbus.ToursChanged) error {
	v.tours = ev.Tours
	if v.tours == nil {
		v.tours = []*tour.Tour{}
	}
	if v.selected != nil {
		v.selected = v.find(v.selected.ID)
	}
	v.refilter()
	return nil
}

func (v *View) onSearchQueryChanged(ev eventbus.SearchQueryChanged) error {
	v.query = ev.Query
	v.refilter()
	return nil
}

func (v *View) onSelectedTourChanged(ev eventbus.SelectedTourChanged) error {
	v.selected = ev.Tour
	return nil
}

// onTourSynchronized swaps in the reconciled tour so the list reflects the
// store-assigned log ids.
func (v *View) onTourSynchronized(ev eventbus.TourSynchronized) error {
	if ev.Tour == nil {
		return nil
	}
	v.replace(ev.Tour)
	if v.selected != nil && v.selected.ID == ev.Tour.ID {
		v.selected = ev.Tour
	}
	v.refilter()
	return nil
}

func (v *View) onAttributesRecomputed(ev eventbus.AttributesRecomputed) error {
	for _, t := range ev.Tours {
		if t != nil {
			v.replace(t)
		}
	}
	v.refilter()
	return nil
}

// replace swaps the tour with the same id, or appends t when it is new.
func (v *View) replace(t *tour.Tour) {
	for i, existing := range v.tours {
		if existing != nil && existing.ID == t.ID {
			v.tours[i] = t
			return
		}
	}
	v.tours = append(v.tours, t)
}

func (v *View) find(id int64) *tour.Tour {
	for _, t := range v.tours {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

func (v *View) refilter() {
	v.filtered = v.index.Search(v.query, v.tours)
	v.logger.Debug("catalog view refreshed",
		"query", v.query,
		"tours", len(v.tours),
		"matches", len(v.filtered),
	)
}

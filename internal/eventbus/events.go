package eventbus

import "github.com/Davimalu/TourPlanner-sub000/internal/tour"

// Event payloads are plain values. Publishers pass clones of the tours so a
// subscriber never sees a later in-place edit; subscribers compare old and new
// snapshots themselves.
//
// Packages may define further payload types; nothing needs registering.

// ToursChanged carries the full, current tour list.
type ToursChanged struct {
	Tours []*tour.Tour
}

// SelectedTourChanged carries the newly selected tour, or nil for none.
type SelectedTourChanged struct {
	Tour *tour.Tour
}

// SearchQueryChanged carries the new active search query.
type SearchQueryChanged struct {
	Query string
}

// TourSynchronized is published after a reconciliation committed its last step.
type TourSynchronized struct {
	Tour    *tour.Tour
	Created []int64
	Updated []int64
	Deleted []int64
}

// AttributesRecomputed is published after derived scores were written back
// onto the tours.
type AttributesRecomputed struct {
	Tours []*tour.Tour
}

package reconcile

import (
	"context"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// LogStore persists the logs of a tour.
type LogStore interface {
	// CreateLog inserts log under tourID and returns it with its new id.
	CreateLog(ctx context.Context, tourID int64, log tour.Log) (tour.Log, error)
	// UpdateLog overwrites the stored log with the same id.
	UpdateLog(ctx context.Context, log tour.Log) (tour.Log, error)
	// DeleteLog removes a log. It returns false when nothing was deleted.
	DeleteLog(ctx context.Context, id int64) (bool, error)
	// GetLogByID returns a NotFound *tour.Error when the id is unknown.
	GetLogByID(ctx context.Context, id int64) (tour.Log, error)
}

// TourStore persists tour-level fields.
type TourStore interface {
	// GetTourByID returns the tour with all of its logs, or a NotFound
	// *tour.Error.
	GetTourByID(ctx context.Context, id int64) (*tour.Tour, error)
	// CommitTourFields writes the scalar fields of t. Logs are ignored.
	CommitTourFields(ctx context.Context, t *tour.Tour) error
}

// Store is the pair of collaborators a Synchronizer needs.
type Store interface {
	LogStore
	TourStore
}

// Transactor runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(Store) error) error
}

// TransactorFunc adapts a function to the Transactor interface.
type TransactorFunc func(ctx context.Context, fn func(Store) error) error

// RunInTx implements Transactor.
func (f TransactorFunc) RunInTx(ctx context.Context, fn func(Store) error) error {
	return f(ctx, fn)
}

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Result describes what one Synchronize call did.
type Result struct {
	// OpID correlates the log lines of this call.
	OpID string

	// Tour is the reconciled in-memory tour: persisted identity, snapshot
	// scalars, and logs carrying their store-assigned ids.
	Tour *tour.Tour

	// Created, Updated and Deleted hold log ids in the order the store
	// calls were issued.
	Created []int64
	Updated []int64
	Deleted []int64
}

// Synchronizer reconciles incoming tour snapshots against a Store.
type Synchronizer struct {
	store  Store
	bus    *eventbus.Bus
	logger *slog.Logger
	tx     Transactor
	opIDs  OpIDGenerator
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTransactor runs the delete, upsert and commit steps inside one
// transaction obtained from t. Without it a mid-way failure is not rolled back.
func WithTransactor(t Transactor) Option {
	return func(s *Synchronizer) {
		s.tx = t
	}
}

// WithOpIDGenerator overrides the default UUIDv7 operation ids.
func WithOpIDGenerator(g OpIDGenerator) Option {
	return func(s *Synchronizer) {
		s.opIDs = g
	}
}

// New creates a Synchronizer. bus may be nil when nobody listens; a nil
// logger discards output.
func New(store Store, bus *eventbus.Bus, logger *slog.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Synchronizer{
		store:  store,
		bus:    bus,
		logger: logger,
		opIDs:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synchronize reconciles incoming against the persisted tour with the same id.
//
// Log ids assigned by the store are also written back into incoming.Logs, so
// a caller holding the snapshot sees the new identities. This happens only
// after a successful run; a failed or rolled-back run leaves incoming untouched.
//
// Errors are *tour.Error values: NotFound when the tour does not exist, or a
// store failure naming the step and ids involved. On a store failure the store
// may be partially reconciled (see the package documentation).
func (s *Synchronizer) Synchronize(ctx context.Context, incoming *tour.Tour) (*Result, error) {
	if incoming == nil {
		return nil, tour.NewValidationError("synchronize", "nil tour")
	}

	res := &Result{OpID: s.opIDs.Generate()}
	logger := s.logger.With("op_id", res.OpID, "tour_id", incoming.ID)

	// Step 1: load.
	persisted, err := s.store.GetTourByID(ctx, incoming.ID)
	if err != nil {
		if tour.IsNotFound(err) {
			logger.Warn("synchronize target missing", "error", err)
			return nil, err
		}
		logger.Error("load tour failed", "error", err)
		return nil, wrapStoreErr("load tour", incoming.ID, 0, err)
	}

	// Step 2: scalars, last write wins.
	persisted.CopyScalars(incoming)
	res.Tour = persisted

	var assigned []assignment
	apply := func(st Store) error {
		assigned, err = s.apply(ctx, st, logger, incoming, res)
		return err
	}
	if s.tx != nil {
		err = s.tx.RunInTx(ctx, apply)
	} else {
		err = apply(s.store)
	}
	if err != nil {
		logger.Error("synchronize failed",
			"error", err,
			"transactional", s.tx != nil,
			"created", len(res.Created),
			"updated", len(res.Updated),
			"deleted", len(res.Deleted),
		)
		return nil, err
	}

	// Ids reach the caller's snapshot only once they are durable.
	for _, a := range assigned {
		incoming.Logs[a.index].ID = a.id
	}

	logger.Info("tour synchronized",
		"created", len(res.Created),
		"updated", len(res.Updated),
		"deleted", len(res.Deleted),
	)

	if s.bus != nil {
		s.bus.Publish(eventbus.TourSynchronized{
			Tour:    persisted.Clone(),
			Created: append([]int64(nil), res.Created...),
			Updated: append([]int64(nil), res.Updated...),
			Deleted: append([]int64(nil), res.Deleted...),
		})
	}
	return res, nil
}

// assignment is a store-assigned id for the snapshot log at index.
type assignment struct {
	index int
	id    int64
}

// apply performs steps 3 to 5 against st and returns the ids assigned to
// created logs.
func (s *Synchronizer) apply(ctx context.Context, st Store, logger *slog.Logger, incoming *tour.Tour, res *Result) ([]assignment, error) {
	working := res.Tour

	incomingIDs := make(map[int64]struct{}, len(incoming.Logs))
	for _, l := range incoming.Logs {
		if l.ID > 0 {
			incomingIDs[l.ID] = struct{}{}
		}
	}

	// Step 3: deletions first.
	var toRemove []int64
	for _, l := range working.Logs {
		if _, keep := incomingIDs[l.ID]; !keep {
			toRemove = append(toRemove, l.ID)
		}
	}
	for _, id := range toRemove {
		deleted, err := st.DeleteLog(ctx, id)
		if err != nil {
			return nil, wrapStoreErr("delete log", working.ID, id, err)
		}
		if !deleted {
			logger.Warn("log already absent from store", "log_id", id)
		}
		if i := working.LogIndex(id); i >= 0 {
			working.Logs = append(working.Logs[:i], working.Logs[i+1:]...)
		}
		res.Deleted = append(res.Deleted, id)
		logger.Debug("log deleted", "log_id", id)
	}

	// Step 4: update logs that were persisted before this run, create the
	// rest. Ids handed out during the loop never count as persisted.
	persistedIDs := make(map[int64]struct{}, len(working.Logs))
	for _, l := range working.Logs {
		persistedIDs[l.ID] = struct{}{}
	}
	var assigned []assignment
	for i := range incoming.Logs {
		l := incoming.Logs[i]
		if _, ok := persistedIDs[l.ID]; ok {
			idx := working.LogIndex(l.ID)
			updated, err := st.UpdateLog(ctx, l)
			if err != nil {
				return nil, wrapStoreErr("update log", working.ID, l.ID, err)
			}
			working.Logs[idx] = updated
			res.Updated = append(res.Updated, updated.ID)
			logger.Debug("log updated", "log_id", updated.ID)
			continue
		}

		created, err := st.CreateLog(ctx, working.ID, l)
		if err != nil {
			return nil, wrapStoreErr("create log", working.ID, l.ID, err)
		}
		working.Logs = append(working.Logs, created)
		assigned = append(assigned, assignment{index: i, id: created.ID})
		res.Created = append(res.Created, created.ID)
		logger.Debug("log created", "log_id", created.ID)
	}

	// Step 5: commit tour-level fields.
	if err := st.CommitTourFields(ctx, working); err != nil {
		return nil, wrapStoreErr("commit tour", working.ID, 0, err)
	}
	return assigned, nil
}

// wrapStoreErr keeps the code of an existing *tour.Error and classifies
// anything else as a store failure.
func wrapStoreErr(op string, tourID, logID int64, err error) error {
	var te *tour.Error
	if errors.As(err, &te) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return tour.NewStoreFailure(op, tourID, logID, err)
}

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Davimalu/TourPlanner-sub000/internal/attribute"
	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/reconcile"
	"github.com/Davimalu/TourPlanner-sub000/internal/store"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Service performs catalog writes against a store and announces them on a
// bus.
type Service struct {
	store  *store.Store
	bus    *eventbus.Bus
	logger *slog.Logger
	engine *attribute.Engine
	sync   *reconcile.Synchronizer
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	atomic bool
	opIDs  reconcile.OpIDGenerator
}

// WithAtomicSync makes Synchronize run its store writes in one transaction.
func WithAtomicSync(atomic bool) ServiceOption {
	return func(c *serviceConfig) {
		c.atomic = atomic
	}
}

// WithOpIDs overrides the synchronizer's operation id generator.
func WithOpIDs(g reconcile.OpIDGenerator) ServiceOption {
	return func(c *serviceConfig) {
		c.opIDs = g
	}
}

// NewService wires a Service. A nil bus is replaced by a private one.
func NewService(st *store.Store, bus *eventbus.Bus, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if bus == nil {
		bus = eventbus.New(logger)
	}

	var cfg serviceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var syncOpts []reconcile.Option
	if cfg.atomic {
		syncOpts = append(syncOpts, reconcile.WithTransactor(Transactor(st)))
	}
	if cfg.opIDs != nil {
		syncOpts = append(syncOpts, reconcile.WithOpIDGenerator(cfg.opIDs))
	}

	return &Service{
		store:  st,
		bus:    bus,
		logger: logger,
		engine: attribute.NewEngine(logger),
		sync:   reconcile.New(st, bus, logger, syncOpts...),
	}
}

// Transactor adapts the store's transactions to the synchronizer.
func Transactor(st *store.Store) reconcile.Transactor {
	return reconcile.TransactorFunc(func(ctx context.Context, fn func(reconcile.Store) error) error {
		return st.RunInTx(ctx, func(tx *store.Tx) error {
			return fn(tx)
		})
	})
}

// Bus returns the bus the service publishes on.
func (s *Service) Bus() *eventbus.Bus {
	return s.bus
}

// Load reads every tour and publishes them as ToursChanged.
func (s *Service) Load(ctx context.Context) ([]*tour.Tour, error) {
	tours, err := s.store.ListTours(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.publishTours(tours)
	return tours, nil
}

// Get returns one tour with its logs.
func (s *Service) Get(ctx context.Context, id int64) (*tour.Tour, error) {
	return s.store.GetTourByID(ctx, id)
}

// GetLog returns one log.
func (s *Service) GetLog(ctx context.Context, id int64) (tour.Log, error) {
	return s.store.GetLogByID(ctx, id)
}

// Add validates and stores a new tour with its logs. Any ids on t are
// ignored. The refreshed catalog is published.
func (s *Service) Add(ctx context.Context, t *tour.Tour) (*tour.Tour, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateTour(ctx, t)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tour created", "tour_id", created.ID, "logs", len(created.Logs))

	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes a tour and its logs. The refreshed catalog is published.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteTour(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return tour.NewTourNotFound("delete tour", id)
	}
	s.logger.Info("tour deleted", "tour_id", id)

	_, err = s.Load(ctx)
	return err
}

// Synchronize validates the snapshot and reconciles it into the store.
func (s *Service) Synchronize(ctx context.Context, snapshot *tour.Tour) (*reconcile.Result, error) {
	if snapshot == nil {
		return nil, tour.NewValidationError("synchronize", "nil tour")
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return s.sync.Synchronize(ctx, snapshot)
}

// Score recomputes popularity and child-friendliness for the whole catalog,
// stores them in one transaction and publishes AttributesRecomputed.
func (s *Service) Score(ctx context.Context) ([]*tour.Tour, []attribute.Warning, error) {
	tours, err := s.store.ListTours(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("score: %w", err)
	}

	warnings := s.engine.Recompute(tours)

	err = s.store.RunInTx(ctx, func(tx *store.Tx) error {
		for _, t := range tours {
			if err := tx.CommitTourFields(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("score: %w", err)
	}

	s.logger.Info("attributes stored", "tours", len(tours), "warnings", len(warnings))
	s.bus.Publish(eventbus.AttributesRecomputed{Tours: cloneAll(tours)})
	return tours, warnings, nil
}

// Search publishes query as the active search query.
func (s *Service) Search(query string) {
	s.bus.Publish(eventbus.SearchQueryChanged{Query: query})
}

// Select publishes t as the selected tour.
func (s *Service) Select(t *tour.Tour) {
	var selected *tour.Tour
	if t != nil {
		selected = t.Clone()
	}
	s.bus.Publish(eventbus.SelectedTourChanged{Tour: selected})
}

func (s *Service) publishTours(tours []*tour.Tour) {
	s.bus.Publish(eventbus.ToursChanged{Tours: cloneAll(tours)})
}

func cloneAll(tours []*tour.Tour) []*tour.Tour {
	out := make([]*tour.Tour, len(tours))
	for i, t := range tours {
		out[i] = t.Clone()
	}
	return out
}

package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/reconcile"
	"github.com/Davimalu/TourPlanner-sub000/internal/testutil"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store. The returned error is
// reserved for scenarios that cannot run at all; a failing expectation is
// reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	if scenario.initial == nil || scenario.snapshot == nil {
		return nil, fmt.Errorf("scenario %q has no decoded tours; load it with LoadScenario or ParseScenario", scenario.Name)
	}

	ms := testutil.NewMemoryStore()
	seeded := ms.Seed(scenario.initial)
	ms.ResetCalls()
	for _, f := range scenario.Failures {
		ms.FailOn(f.Op, f.LogID, f.err())
	}

	events := 0
	bus := eventbus.New(nil)
	eventbus.Subscribe(bus, func(eventbus.TourSynchronized) error {
		events++
		return nil
	})

	opIDs := testutil.NewFixedOpIDGenerator(scenario.OpID)
	opts := []reconcile.Option{reconcile.WithOpIDGenerator(opIDs)}
	if scenario.Atomic {
		opts = append(opts, reconcile.WithTransactor(memoryTransactor(ms)))
	}
	syncer := reconcile.New(ms, bus, nil, opts...)

	res, err := syncer.Synchronize(context.Background(), scenario.snapshot.Clone())

	result := NewResult()
	result.OpID = opIDs.Generate()
	result.Outcome = classify(err)
	if err != nil {
		result.Err = err.Error()
	} else {
		result.Created = append(result.Created, res.Created...)
		result.Updated = append(result.Updated, res.Updated...)
		result.Deleted = append(result.Deleted, res.Deleted...)
	}
	for _, c := range ms.Calls {
		result.AddCall(c.Op, c.TourID, c.LogID)
	}
	result.Events = events
	result.Final = ms.Tour(seeded.ID)

	checkExpect(result, scenario.Expect)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// memoryTransactor rolls ms back when the synchronizer's steps fail.
func memoryTransactor(ms *testutil.MemoryStore) reconcile.Transactor {
	return reconcile.TransactorFunc(func(ctx context.Context, fn func(reconcile.Store) error) error {
		return ms.RunInTx(ctx, func(tx *testutil.MemoryStore) error {
			return fn(tx)
		})
	})
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case tour.IsNotFound(err):
		return OutcomeNotFound
	case tour.IsStoreFailure(err):
		return OutcomeStoreFailure
	case tour.IsValidation(err):
		return OutcomeValidation
	default:
		return OutcomeError
	}
}

// checkExpect compares the result against the scenario's expect clause.
func checkExpect(result *Result, expect ExpectClause) {
	if result.Outcome != expect.Outcome {
		msg := fmt.Sprintf("expected outcome %s, got %s", expect.Outcome, result.Outcome)
		if result.Err != "" {
			msg += fmt.Sprintf(" (%s)", result.Err)
		}
		result.AddError(msg)
	}

	check := func(field string, want, got []int64) {
		if want != nil && !slices.Equal(want, got) {
			result.AddError(fmt.Sprintf("expected %s %v, got %v", field, want, got))
		}
	}
	check("created", expect.Created, result.Created)
	check("updated", expect.Updated, result.Updated)
	check("deleted", expect.Deleted, result.Deleted)
}

package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// TraceSnapshot is the golden-file view of a run: everything observable
// except the pass/fail verdict.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	OpID         string       `json:"op_id"`
	Outcome      string       `json:"outcome"`
	Error        string       `json:"error,omitempty"`
	Created      []int64      `json:"created"`
	Updated      []int64      `json:"updated"`
	Deleted      []int64      `json:"deleted"`
	Trace        []TraceEvent `json:"trace"`
	Events       int          `json:"events"`
	Final        *tour.Tour   `json:"final"`
}

func snapshotOf(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		OpID:         result.OpID,
		Outcome:      result.Outcome,
		Error:        result.Err,
		Created:      result.Created,
		Updated:      result.Updated,
		Deleted:      result.Deleted,
		Trace:        result.Trace,
		Events:       result.Events,
		Final:        result.Final,
	}
}

// RunWithGolden executes a scenario and compares the run against a golden
// file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check Pass as well.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := json.MarshalIndent(snapshotOf(scenarioName, result), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

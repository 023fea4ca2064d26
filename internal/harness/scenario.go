package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Davimalu/TourPlanner-sub000/internal/testutil"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
	"github.com/Davimalu/TourPlanner-sub000/internal/tourfile"
)

// Scenario defines one reconciliation run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// OpID is the fixed operation id of the run. Empty means "test-op".
	OpID string `yaml:"op_id,omitempty"`

	// Atomic runs the synchronizer with a transactor, so failures roll back.
	Atomic bool `yaml:"atomic,omitempty"`

	// Tour is seeded into the store before the run. Its ids are ignored.
	Tour yaml.Node `yaml:"tour"`

	// Snapshot is passed to Synchronize.
	Snapshot yaml.Node `yaml:"snapshot"`

	// Failures are injected into the store before the run.
	Failures []FailStep `yaml:"fail,omitempty"`

	// Expect checks the outcome and the id lists of the result.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate the call record and the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	initial  *tour.Tour
	snapshot *tour.Tour
}

// FailStep makes a store operation fail.
type FailStep struct {
	// Op is a store operation name, e.g. "delete_log".
	Op string `yaml:"op"`

	// LogID limits the failure to one log. Zero matches every call.
	LogID int64 `yaml:"log_id,omitempty"`

	// Error is "store" for an opaque store error or "not_found".
	Error string `yaml:"error"`
}

// Failure kinds for FailStep.Error.
const (
	FailStore    = "store"
	FailNotFound = "not_found"
)

func (f FailStep) err() error {
	if f.Error == FailNotFound {
		return tour.NewLogNotFound(f.Op, f.LogID)
	}
	return errors.New("injected store failure")
}

// ExpectClause specifies the expected result of Synchronize.
type ExpectClause struct {
	// Outcome is one of the Outcome constants.
	Outcome string `yaml:"outcome"`

	// Created, Updated and Deleted are compared exactly when present.
	Created []int64 `yaml:"created,omitempty"`
	Updated []int64 `yaml:"updated,omitempty"`
	Deleted []int64 `yaml:"deleted,omitempty"`
}

// Outcomes of a run.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeStoreFailure = "store_failure"
	OutcomeValidation   = "validation"
	OutcomeError        = "error"
)

// Assertion validates the call record or final state.
type Assertion struct {
	// Type is one of the Assert constants.
	Type string `yaml:"type"`

	// Op is the store operation (call_contains, call_count).
	Op string `yaml:"op,omitempty"`

	// Ops is the expected call order (call_order).
	Ops []string `yaml:"ops,omitempty"`

	// TourID and LogID narrow call_contains; LogID selects the log for
	// final_state.
	TourID int64 `yaml:"tour_id,omitempty"`
	LogID  int64 `yaml:"log_id,omitempty"`

	// Count is the expected number of calls or events.
	Count int `yaml:"count,omitempty"`

	// Expect holds wire-format fields for final_state. Subset match.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Absent asserts that the log selected by LogID no longer exists.
	Absent bool `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertCallContains = "call_contains"
	AssertCallOrder    = "call_order"
	AssertCallCount    = "call_count"
	AssertFinalState   = "final_state"
	AssertEvents       = "events"
)

var storeOps = map[string]bool{
	testutil.OpGetTour:    true,
	testutil.OpCommitTour: true,
	testutil.OpCreateLog:  true,
	testutil.OpUpdateLog:  true,
	testutil.OpDeleteLog:  true,
	testutil.OpGetLog:     true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or holds a tour that violates the snapshot schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(filepath.Base(path), data)
}

// ParseScenario parses scenario YAML. name is used in error positions.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	dec, err := tourfile.NewDecoder()
	if err != nil {
		return nil, err
	}
	if s.initial, err = decodeTour(dec, name+"#tour", &s.Tour); err != nil {
		return nil, fmt.Errorf("invalid scenario: tour: %w", err)
	}
	if s.snapshot, err = decodeTour(dec, name+"#snapshot", &s.Snapshot); err != nil {
		return nil, fmt.Errorf("invalid scenario: snapshot: %w", err)
	}
	return &s, nil
}

// decodeTour re-encodes a YAML node and runs it through the snapshot decoder.
func decodeTour(dec *tourfile.Decoder, name string, node *yaml.Node) (*tour.Tour, error) {
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, err
	}
	return dec.Decode(name, data, tourfile.FormatYAML)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Tour.Kind != yaml.MappingNode {
		return fmt.Errorf("tour is required and must be a mapping")
	}

	if s.Snapshot.Kind != yaml.MappingNode {
		return fmt.Errorf("snapshot is required and must be a mapping")
	}

	switch s.Expect.Outcome {
	case OutcomeOK, OutcomeNotFound, OutcomeStoreFailure, OutcomeValidation, OutcomeError:
	case "":
		return fmt.Errorf("expect.outcome is required")
	default:
		return fmt.Errorf("expect.outcome: unknown outcome %q", s.Expect.Outcome)
	}

	for i, f := range s.Failures {
		if !storeOps[f.Op] {
			return fmt.Errorf("fail[%d]: unknown store op %q", i, f.Op)
		}
		if f.Error != FailStore && f.Error != FailNotFound {
			return fmt.Errorf("fail[%d]: error must be %q or %q", i, FailStore, FailNotFound)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCallContains:
		if !storeOps[a.Op] {
			return fmt.Errorf("assertions[%d]: unknown store op %q for call_contains", index, a.Op)
		}
	case AssertCallOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for call_order", index)
		}
		for _, op := range a.Ops {
			if !storeOps[op] {
				return fmt.Errorf("assertions[%d]: unknown store op %q for call_order", index, op)
			}
		}
	case AssertCallCount:
		if !storeOps[a.Op] {
			return fmt.Errorf("assertions[%d]: unknown store op %q for call_count", index, a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for call_count", index)
		}
	case AssertFinalState:
		if a.Absent {
			if a.LogID == 0 {
				return fmt.Errorf("assertions[%d]: absent requires log_id", index)
			}
			break
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertEvents:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for events", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Call record for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nStore calls:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s tour=%d log=%d\n", event.Seq, event.Op, event.TourID, event.LogID)
		}
	}

	return buf.String()
}

// assertCallContains checks that a call with the given op and ids was made.
func assertCallContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Op != assertion.Op {
			continue
		}
		if assertion.TourID != 0 && event.TourID != assertion.TourID {
			continue
		}
		if assertion.LogID != 0 && event.LogID != assertion.LogID {
			continue
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertCallContains,
		Expected: fmt.Sprintf("call %s%s", assertion.Op, describeIDs(assertion.TourID, assertion.LogID)),
		Actual:   "not found in call record",
		Trace:    trace,
	}
}

// assertCallOrder checks that the ops appear in order. Other calls may be
// interleaved and an op may be listed more than once.
func assertCallOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(assertion.Ops) && event.Op == assertion.Ops[next] {
			next++
		}
	}
	if next == len(assertion.Ops) {
		return nil
	}

	return &AssertionError{
		Type:     AssertCallOrder,
		Expected: fmt.Sprintf("calls in order: %v", assertion.Ops),
		Actual:   fmt.Sprintf("matched %v, then no %s", assertion.Ops[:next], assertion.Ops[next]),
		Trace:    trace,
	}
}

// assertCallCount checks that op was called exactly Count times.
func assertCallCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertCallCount,
			Expected: fmt.Sprintf("%d calls of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d calls", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertEvents checks the number of published TourSynchronized events.
func assertEvents(events int, assertion Assertion) error {
	if events != assertion.Count {
		return &AssertionError{
			Type:     AssertEvents,
			Expected: fmt.Sprintf("%d TourSynchronized event(s)", assertion.Count),
			Actual:   fmt.Sprintf("%d published", events),
		}
	}
	return nil
}

// assertFinalState compares the stored tour, or one of its logs, against
// the expected wire-format fields (subset semantics).
func assertFinalState(final *tour.Tour, assertion Assertion) error {
	if final == nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: "seeded tour in store",
			Actual:   "tour not found",
		}
	}

	target := interface{}(final)
	where := fmt.Sprintf("tour %d", final.ID)
	if assertion.LogID != 0 {
		idx := final.LogIndex(assertion.LogID)
		if assertion.Absent {
			if idx >= 0 {
				return &AssertionError{
					Type:     AssertFinalState,
					Expected: fmt.Sprintf("log %d to be absent", assertion.LogID),
					Actual:   "log still stored",
				}
			}
			return nil
		}
		if idx < 0 {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("log %d in tour %d", assertion.LogID, final.ID),
				Actual:   "log not found",
			}
		}
		target = final.Logs[idx]
		where = fmt.Sprintf("log %d", assertion.LogID)
	}

	actual, err := toWireMap(target)
	if err != nil {
		return fmt.Errorf("final_state: encode %s: %w", where, err)
	}
	expected, err := toWireMap(assertion.Expect)
	if err != nil {
		return fmt.Errorf("final_state: encode expectation: %w", err)
	}

	// Sort keys for deterministic messages
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		actualValue, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q on %s", key, where),
				Actual:   "field not present",
			}
		}
		if !reflect.DeepEqual(expected[key], actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s field %q = %v", where, key, expected[key]),
				Actual:   fmt.Sprintf("%s field %q = %v", where, key, actualValue),
			}
		}
	}

	return nil
}

// toWireMap round-trips v through JSON so expected YAML values and actual
// wire values compare with the same types.
func toWireMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func describeIDs(tourID, logID int64) string {
	var parts []string
	if tourID != 0 {
		parts = append(parts, fmt.Sprintf("tour=%d", tourID))
	}
	if logID != 0 {
		parts = append(parts, fmt.Sprintf("log=%d", logID))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCallContains:
			err = assertCallContains(result.Trace, assertion)
		case AssertCallOrder:
			err = assertCallOrder(result.Trace, assertion)
		case AssertCallCount:
			err = assertCallCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result.Final, assertion)
		case AssertEvents:
			err = assertEvents(result.Events, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davimalu/TourPlanner-sub000/internal/testutil"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

func sampleResult() *Result {
	r := NewResult()
	r.AddCall(testutil.OpGetTour, 1, 0)
	r.AddCall(testutil.OpDeleteLog, 1, 2)
	r.AddCall(testutil.OpUpdateLog, 1, 1)
	r.AddCall(testutil.OpCreateLog, 1, 0)
	r.AddCall(testutil.OpCommitTour, 1, 0)
	r.Events = 1
	r.Final = &tour.Tour{
		ID:            1,
		Name:          "Wachau",
		TransportType: tour.TransportBicycle,
		Distance:      36.4,
		Logs: []tour.Log{
			{ID: 1, TimeStamp: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), Comment: "vineyards", Difficulty: 2, TimeTaken: 90 * time.Minute, Rating: 4.5},
			{ID: 3, TimeStamp: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC), Comment: "ferry", Difficulty: 1},
		},
	}
	return r
}

func TestResult_AddCallNumbersSequentially(t *testing.T) {
	r := sampleResult()
	for i, ev := range r.Trace {
		assert.Equal(t, i+1, ev.Seq)
	}
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

func TestAssertCallContains(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"op only", Assertion{Op: testutil.OpDeleteLog}, false},
		{"op and log", Assertion{Op: testutil.OpDeleteLog, LogID: 2}, false},
		{"op and tour", Assertion{Op: testutil.OpCommitTour, TourID: 1}, false},
		{"wrong log", Assertion{Op: testutil.OpDeleteLog, LogID: 1}, true},
		{"wrong tour", Assertion{Op: testutil.OpDeleteLog, TourID: 2}, true},
		{"missing op", Assertion{Op: testutil.OpGetLog}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertCallContains
			err := assertCallContains(r.Trace, tt.assertion)
			if tt.wantErr {
				require.Error(t, err)
				var ae *AssertionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, AssertCallContains, ae.Type)
				assert.Contains(t, err.Error(), "Store calls:")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertCallOrder(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertCallOrder(r.Trace, Assertion{Ops: []string{testutil.OpGetTour, testutil.OpCommitTour}}))
	assert.NoError(t, assertCallOrder(r.Trace, Assertion{Ops: []string{testutil.OpDeleteLog, testutil.OpUpdateLog, testutil.OpCreateLog}}))

	err := assertCallOrder(r.Trace, Assertion{Ops: []string{testutil.OpCreateLog, testutil.OpDeleteLog}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "then no delete_log")

	err = assertCallOrder(r.Trace, Assertion{Ops: []string{testutil.OpDeleteLog, testutil.OpDeleteLog}})
	require.Error(t, err, "a repeated op needs a repeated call")
}

func TestAssertCallCount(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertCallCount(r.Trace, Assertion{Op: testutil.OpUpdateLog, Count: 1}))
	assert.NoError(t, assertCallCount(r.Trace, Assertion{Op: testutil.OpGetLog, Count: 0}))

	err := assertCallCount(r.Trace, Assertion{Op: testutil.OpUpdateLog, Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 calls of update_log")
	assert.Contains(t, err.Error(), "Actual: 1 calls")
}

func TestAssertFinalState(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"tour fields", Assertion{Expect: map[string]interface{}{"tourName": "Wachau", "distance": 36.4}}, ""},
		{"int against float", Assertion{Expect: map[string]interface{}{"tourId": 1}}, ""},
		{"log fields", Assertion{LogID: 1, Expect: map[string]interface{}{"comment": "vineyards", "timeTaken": "01:30:00", "rating": 4.5}}, ""},
		{"log timestamp", Assertion{LogID: 3, Expect: map[string]interface{}{"timeStamp": "2024-06-02T08:00:00Z"}}, ""},
		{"absent log", Assertion{LogID: 2, Absent: true}, ""},
		{"tour mismatch", Assertion{Expect: map[string]interface{}{"tourName": "Rax"}}, `field "tourName"`},
		{"unknown field", Assertion{Expect: map[string]interface{}{"nickname": "x"}}, "field not present"},
		{"missing log", Assertion{LogID: 9, Expect: map[string]interface{}{"comment": "x"}}, "log not found"},
		{"log still stored", Assertion{LogID: 1, Absent: true}, "log still stored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertFinalState
			err := assertFinalState(r.Final, tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssertFinalState_NoTour(t *testing.T) {
	err := assertFinalState(nil, Assertion{Type: AssertFinalState, Expect: map[string]interface{}{"tourName": "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tour not found")
}

func TestEvaluateAssertions(t *testing.T) {
	r := sampleResult()

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertCallCount, Op: testutil.OpCommitTour, Count: 1},
		{Type: AssertEvents, Count: 1},
		{Type: AssertEvents, Count: 0},
		{Type: "bogus"},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "0 TourSynchronized event(s)")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

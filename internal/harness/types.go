package harness

import "github.com/Davimalu/TourPlanner-sub000/internal/tour"

// TraceEvent is one recorded store call.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	TourID int64  `json:"tour_id"`
	LogID  int64  `json:"log_id,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: the expect clause and every
	// assertion held.
	Pass bool `json:"pass"`

	// Outcome classifies the error returned by Synchronize.
	Outcome string `json:"outcome"`

	// OpID is the operation id the synchronizer used.
	OpID string `json:"op_id"`

	// Created, Updated and Deleted come from the synchronizer result. They
	// are empty when the run failed.
	Created []int64 `json:"created"`
	Updated []int64 `json:"updated"`
	Deleted []int64 `json:"deleted"`

	// Trace lists every store call in issue order.
	Trace []TraceEvent `json:"trace"`

	// Events counts published TourSynchronized events.
	Events int `json:"events"`

	// Final is the stored state of the seeded tour after the run.
	Final *tour.Tour `json:"final"`

	// Err is the message of the error returned by Synchronize.
	Err string `json:"error,omitempty"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Created: []int64{},
		Updated: []int64{},
		Deleted: []int64{},
		Trace:   []TraceEvent{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCall appends a store call to the trace.
func (r *Result) AddCall(op string, tourID, logID int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    len(r.Trace) + 1,
		Op:     op,
		TourID: tourID,
		LogID:  logID,
	})
}

package testutil

import (
	"context"
	"fmt"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Store operation names recorded in MemoryStore.Calls.
const (
	OpGetTour    = "get_tour"
	OpCommitTour = "commit_tour"
	OpCreateLog  = "create_log"
	OpUpdateLog  = "update_log"
	OpDeleteLog  = "delete_log"
	OpGetLog     = "get_log"
)

// Call is one recorded store call.
type Call struct {
	Op     string
	TourID int64
	LogID  int64
}

type storedLog struct {
	tourID int64
	log    tour.Log
}

type failure struct {
	op    string
	logID int64
	err   error
}

// MemoryStore is an in-memory tour and log store that records every call.
// It satisfies the store contracts the synchronizer consumes and is meant
// for tests only.
type MemoryStore struct {
	tours    map[int64]*tour.Tour
	logs     map[int64]storedLog
	logOrder map[int64][]int64
	tourIDs  *Sequence
	logIDs   *Sequence
	failures []failure

	// Calls lists every store call in issue order. Seeding is not recorded.
	Calls []Call
}

// NewMemoryStore creates an empty store. Ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tours:    make(map[int64]*tour.Tour),
		logs:     make(map[int64]storedLog),
		logOrder: make(map[int64][]int64),
		tourIDs:  NewSequence(0),
		logIDs:   NewSequence(0),
	}
}

// Seed stores t and its logs, assigning fresh ids, and returns a clone of
// the persisted tour. Nothing is recorded in Calls.
func (s *MemoryStore) Seed(t *tour.Tour) *tour.Tour {
	c := t.Clone()
	c.ID = s.tourIDs.Next()
	logs := c.Logs
	c.Logs = nil
	s.tours[c.ID] = c
	for _, l := range logs {
		l.ID = s.logIDs.Next()
		s.logs[l.ID] = storedLog{tourID: c.ID, log: l}
		s.logOrder[c.ID] = append(s.logOrder[c.ID], l.ID)
	}
	return s.snapshot(c.ID)
}

// FailOn makes the next calls of op fail with err. A non-zero logID limits
// the failure to that log.
func (s *MemoryStore) FailOn(op string, logID int64, err error) {
	s.failures = append(s.failures, failure{op: op, logID: logID, err: err})
}

// CallsFor returns the recorded calls of op.
func (s *MemoryStore) CallsFor(op string) []Call {
	var out []Call
	for _, c := range s.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call record.
func (s *MemoryStore) ResetCalls() {
	s.Calls = nil
}

// Tour returns the stored state of a tour without recording a call.
func (s *MemoryStore) Tour(id int64) *tour.Tour {
	return s.snapshot(id)
}

// LogCount returns the number of stored logs across all tours.
func (s *MemoryStore) LogCount() int {
	return len(s.logs)
}

// GetTourByID returns a copy of the tour with its logs.
func (s *MemoryStore) GetTourByID(_ context.Context, id int64) (*tour.Tour, error) {
	s.record(OpGetTour, id, 0)
	if err := s.injected(OpGetTour, 0); err != nil {
		return nil, err
	}
	t := s.snapshot(id)
	if t == nil {
		return nil, tour.NewTourNotFound("get tour", id)
	}
	return t, nil
}

// CommitTourFields stores the scalar fields of t.
func (s *MemoryStore) CommitTourFields(_ context.Context, t *tour.Tour) error {
	s.record(OpCommitTour, t.ID, 0)
	if err := s.injected(OpCommitTour, 0); err != nil {
		return err
	}
	stored, ok := s.tours[t.ID]
	if !ok {
		return tour.NewTourNotFound("commit tour", t.ID)
	}
	stored.CopyScalars(t)
	return nil
}

// CreateLog appends log to tour tourID under a fresh id.
func (s *MemoryStore) CreateLog(_ context.Context, tourID int64, log tour.Log) (tour.Log, error) {
	s.record(OpCreateLog, tourID, log.ID)
	if err := s.injected(OpCreateLog, log.ID); err != nil {
		return tour.Log{}, err
	}
	if _, ok := s.tours[tourID]; !ok {
		return tour.Log{}, tour.NewTourNotFound("create log", tourID)
	}
	log.ID = s.logIDs.Next()
	s.logs[log.ID] = storedLog{tourID: tourID, log: log}
	s.logOrder[tourID] = append(s.logOrder[tourID], log.ID)
	return log, nil
}

// UpdateLog overwrites a stored log.
func (s *MemoryStore) UpdateLog(_ context.Context, log tour.Log) (tour.Log, error) {
	stored, ok := s.logs[log.ID]
	s.record(OpUpdateLog, stored.tourID, log.ID)
	if err := s.injected(OpUpdateLog, log.ID); err != nil {
		return tour.Log{}, err
	}
	if !ok {
		return tour.Log{}, tour.NewLogNotFound("update log", log.ID)
	}
	stored.log = log
	s.logs[log.ID] = stored
	return log, nil
}

// DeleteLog removes a log; false when it did not exist.
func (s *MemoryStore) DeleteLog(_ context.Context, id int64) (bool, error) {
	stored, ok := s.logs[id]
	s.record(OpDeleteLog, stored.tourID, id)
	if err := s.injected(OpDeleteLog, id); err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	delete(s.logs, id)
	order := s.logOrder[stored.tourID]
	for i, lid := range order {
		if lid == id {
			s.logOrder[stored.tourID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return true, nil
}

// GetLogByID returns a stored log.
func (s *MemoryStore) GetLogByID(_ context.Context, id int64) (tour.Log, error) {
	stored, ok := s.logs[id]
	s.record(OpGetLog, stored.tourID, id)
	if err := s.injected(OpGetLog, id); err != nil {
		return tour.Log{}, err
	}
	if !ok {
		return tour.Log{}, tour.NewLogNotFound("get log", id)
	}
	return stored.log, nil
}

// RunInTx runs fn against s and restores the previous state when fn fails.
// Calls made inside fn stay recorded.
func (s *MemoryStore) RunInTx(_ context.Context, fn func(*MemoryStore) error) error {
	saved := s.save()
	if err := fn(s); err != nil {
		s.restore(saved)
		return fmt.Errorf("rolled back: %w", err)
	}
	return nil
}

type memState struct {
	tours    map[int64]*tour.Tour
	logs     map[int64]storedLog
	logOrder map[int64][]int64
	tourSeq  int64
	logSeq   int64
}

func (s *MemoryStore) save() memState {
	st := memState{
		tours:    make(map[int64]*tour.Tour, len(s.tours)),
		logs:     make(map[int64]storedLog, len(s.logs)),
		logOrder: make(map[int64][]int64, len(s.logOrder)),
		tourSeq:  s.tourIDs.Current(),
		logSeq:   s.logIDs.Current(),
	}
	for id, t := range s.tours {
		st.tours[id] = t.Clone()
	}
	for id, l := range s.logs {
		st.logs[id] = l
	}
	for id, order := range s.logOrder {
		st.logOrder[id] = append([]int64(nil), order...)
	}
	return st
}

func (s *MemoryStore) restore(st memState) {
	s.tours = st.tours
	s.logs = st.logs
	s.logOrder = st.logOrder
	s.tourIDs = NewSequence(st.tourSeq)
	s.logIDs = NewSequence(st.logSeq)
}

func (s *MemoryStore) snapshot(id int64) *tour.Tour {
	t, ok := s.tours[id]
	if !ok {
		return nil
	}
	c := t.Clone()
	c.Logs = make([]tour.Log, 0, len(s.logOrder[id]))
	for _, lid := range s.logOrder[id] {
		c.Logs = append(c.Logs, s.logs[lid].log)
	}
	return c
}

func (s *MemoryStore) record(op string, tourID, logID int64) {
	s.Calls = append(s.Calls, Call{Op: op, TourID: tourID, LogID: logID})
}

func (s *MemoryStore) injected(op string, logID int64) error {
	for _, f := range s.failures {
		if f.op == op && (f.logID == 0 || f.logID == logID) {
			return f.err
		}
	}
	return nil
}

// Package harness runs reconciliation scenarios against the tour
// synchronizer.
//
// A scenario seeds an in-memory store with one tour, feeds a snapshot through
// reconcile.Synchronizer, and checks the outcome, the recorded store calls and
// the final stored state.
//
// # Scenario Format
//
// Scenarios are YAML files. Tours use the snapshot file format and are
// validated against the same schema as imported files:
//
//	name: drop_and_create
//	description: "Missing logs are deleted, logs without an id are created"
//	op_id: op-1
//	atomic: false
//	tour:
//	  tourName: Wachau
//	  transportationType: Bicycle
//	  logs:
//	    - { timeStamp: 2024-06-01T08:00:00Z, difficulty: 2 }
//	    - { timeStamp: 2024-06-02T08:00:00Z, difficulty: 3 }
//	snapshot:
//	  tourId: 1
//	  tourName: Wachau
//	  transportationType: Bicycle
//	  logs:
//	    - { logId: 1, timeStamp: 2024-06-01T08:00:00Z, difficulty: 2 }
//	    - { timeStamp: 2024-06-03T08:00:00Z, difficulty: 1 }
//	fail:
//	  - op: update_log
//	    log_id: 1
//	    error: store
//	expect:
//	  outcome: store_failure
//	assertions:
//	  - type: call_order
//	    ops: [get_tour, delete_log, update_log]
//	  - type: call_count
//	    op: commit_tour
//	    count: 0
//	  - type: final_state
//	    log_id: 2
//	    absent: true
//
// The seeded tour always gets id 1 and its logs get ids 1..n in file order.
//
// # Assertion Types
//
//   - call_contains: a store call with the given op (and ids, when set) was made
//   - call_order: the listed ops appear in the call record in this order
//   - call_count: the op was called exactly count times
//   - final_state: the stored tour, or one of its logs, has the expected
//     wire-format fields; with absent the log must be gone
//   - events: exactly count TourSynchronized events were published
//
// # Deterministic Runs
//
// Every run uses a fresh store, a fixed operation id and store-assigned ids
// that start at 1, so results can be compared against golden files.
package harness

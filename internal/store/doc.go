// Package store provides SQLite-backed durable storage for tours and their
// logs.
//
// Two tables hold the catalog:
//   - tours: one row per tour, including the derived popularity,
//     child-friendliness and summary fields
//   - tour_logs: one row per log, owned by a tour
//
// # Identity
//
// Ids are assigned by SQLite (INTEGER PRIMARY KEY AUTOINCREMENT) and are never
// reused, so an id held by a stale snapshot can not silently address a newer
// row. Callers treat an id of zero as "not yet persisted".
//
// # Ordering
//
// Tours are listed by id. Logs are read per tour in id order, which is their
// creation order.
//
// # Transactions
//
// Store and Tx share the same tour and log methods. RunInTx gives a caller
// (the synchronizer in atomic mode) a Tx whose writes commit together.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Logs are deleted with their tour (ON DELETE CASCADE)
package store

// Package reconcile merges a client-submitted tour snapshot into the
// persisted tour.
//
// # Algorithm
//
// Synchronize runs these steps strictly in order:
//
//  1. Load the persisted tour and its logs. A missing tour is a NotFound
//     failure and nothing else happens.
//  2. Overwrite every scalar field with the snapshot's values (last write wins).
//  3. Delete every persisted log whose id is absent from the snapshot, dropping
//     it from the in-memory set after each successful delete.
//  4. Update every snapshot log whose id matches a log persisted before this
//     run; create the rest. An id handed out earlier in the same loop never
//     turns a create into an update. Store-assigned ids are written back into
//     the snapshot once the run has succeeded.
//  5. Commit the tour's scalar fields.
//
// Deletes run before creates so that the in-memory set never holds a removed
// log next to a new one with the same id.
//
// # Failure semantics
//
// Without a Transactor there is no rollback: a store failure in step 3 or 4
// leaves the store partially reconciled. Callers must re-fetch the tour after
// a failed Synchronize instead of trusting their in-memory copy. With
// WithTransactor, steps 3 to 5 run inside one transaction.
//
// # Events
//
// After step 5 succeeds a TourSynchronized event is published on the bus. It
// is never published while persistence is still in progress.
//
// Thread-safety: a Synchronizer is meant to be driven from one logical
// thread, like the event bus it publishes on.
package reconcile

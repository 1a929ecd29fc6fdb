// Package console holds the draft-reconciliation and publish model of the home
// page admin console.
//
// Authoritative content is fetched from the content service into a Snapshot.
// While the operator is authenticated, the DraftStore keeps editable copies of
// the mission, about, notice and theme sub-resources seeded from the latest
// snapshot. Saving a sub-resource sends exactly one mutation to the service
// and, on success, refreshes the snapshot, which re-seeds the drafts.
//
// All state transitions run on a single event loop (a mutex held only while
// state is read or applied, never across a network call), so components are
// safe to drive from several goroutines while keeping the ordering semantics
// of a single-threaded UI: the result applied last is the one that arrived
// last, unless LatestRequestWins is configured.
package console

// Package state holds the tray's view of the daemon and the commands in
// flight against it.
//
// # Overview
//
// Store is the single place where the poller's reads meet the command
// orchestrator's writes. Presenters only ever see copies returned by
// Snapshot.
//
//	Poller:                    Orchestrator:              Presenter:
//	┌──────────────────┐       ┌──────────────────┐       ┌──────────────────┐
//	│ BeginPoll()      │       │ BeginToggle()    │       │ <-Changes()      │
//	│ FetchStatus()    │       │ SendToggle()     │       │ Snapshot()       │
//	│ ApplyStatus() or │──────→│ CompleteToggle() │──────→│ Render()         │
//	│ MarkUnreachable()│ mutex │ or RollbackToggle│       │                  │
//	└──────────────────┘       └──────────────────┘       └──────────────────┘
//
// # Concurrency Model
//
// One sync.Mutex guards the snapshot and the pending command set together.
// Every method holds it only while copying or assigning fields; network I/O
// always happens outside the store.
//
// # Update Semantics
//
//	// Successful poll
//	store.ApplyStatus(tok, status, profiles, fetched)
//	→ Reachable, Running, Version, LastUpdated replaced
//	→ RemappingEnabled replaced unless a toggle is pending
//	→ ProfileName (and Profiles when fetched) replaced unless an activation
//	  is pending
//
//	// Failed poll
//	store.MarkUnreachable(err)
//	→ Reachable = false, everything else kept as last known
//	→ profile list reloaded on the next successful poll
//
// A poll captures a PollToken before it touches the network. If any command
// starts or finishes before the poll lands, the token is outdated and the
// poll only updates reachability. This keeps an in-flight poll from undoing
// an optimistic update or an acknowledged command.
//
// # Commands
//
// BeginToggle and BeginActivate apply the user's intent immediately and
// record what to restore. At most one command per Kind is in flight; a second
// one fails with ErrCommandPending and changes nothing.
//
// # Invariants
//
//   - At most one profile is active in any snapshot
//   - Last-known profile and remapping values survive a failed poll
//   - Snapshots never share slices with the store
//
// # Change Notification
//
// Changes returns a channel with a buffer of one. Every mutation tries a
// non-blocking send, so a burst of updates wakes a presenter once and it
// renders the latest Snapshot.
//
// The Store is ready to use as a zero value.
package state

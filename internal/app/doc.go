// Package app provides the orchestration layer of the KeyRx tray.
//
// # Overview
//
// This package keeps the local view of the daemon current and turns user
// intents into daemon commands. It knows nothing about menus or terminals:
// presenters (package tray, package tui) implement Presenter and exchange
// plain values with the Engine.
//
// # Components
//
//   - app.go: Engine, the Presenter contract and the event loop
//   - poller.go: fixed-period status polling with overlap suppression
//   - commands.go: Orchestrator, optimistic commands with rollback
//   - events.go: user intents emitted by presenters
//   - clock.go: injectable time source for the poller
//   - logging.go, browser.go: process plumbing used by the CLI
//
// # Data Flow
//
//	┌─────────────┐  Event   ┌──────────────┐  Begin/Complete/Rollback
//	│  Presenter  │ ───────> │ Engine.Run   │ ──────────────┐
//	└─────────────┘          └──────┬───────┘               │
//	      ^  Render(Snapshot)       │ Orchestrator          v
//	      │                         │ SendToggle      ┌───────────┐
//	      └──── store.Changes() ────┼──────────────── │state.Store│
//	                                │                 └───────────┘
//	                         Poller.Run                     ^
//	                          ├─> FetchStatus               │
//	                          ├─> FetchProfiles (when stale)│
//	                          └─> ApplyStatus / MarkUnreachable
//
// # Polling Behavior
//
// The first poll fires as soon as Run starts; later polls follow the
// configured interval (default 5 seconds). A tick that arrives while a poll
// is still outstanding is dropped and counted in Poller.Skipped. The profile
// list is only fetched when it has not been loaded since the daemon became
// reachable, or after RequestProfileRefresh.
//
// There is no backoff. A daemon that is down is retried on every tick, and
// the warning is logged once per reachable to unreachable transition.
//
// # Commands
//
// ToggleRemapping and SwitchProfile update the store before calling the
// daemon, so presenters reflect the change at once. A rejected command
// restores the values shown before it. A second command of the same kind
// issued while the first is in flight returns ErrCommandPending and never
// reaches the network. Every resolved command produces one Outcome.
//
// # Error Handling
//
// Fatal errors (returned to the CLI):
//   - Invalid configuration
//   - Log file cannot be opened
//   - Presenter cannot start
//
// Recoverable errors (logged, state updated):
//   - Status or profile fetch failures
//   - Command failures, which also roll back
package app

// Package keyrx provides the transport to the KeyRx daemon control API.
//
// # Overview
//
// The tray never talks to the daemon directly; everything goes through the
// Transport interface, which has two implementations:
//
//   - Client: HTTP+JSON against the daemon's base URL
//   - Mock: an in-process daemon used when mock mode is enabled
//
// # API Endpoints
//
//   - GET  /api/status             running, profile, remapping_enabled
//   - GET  /api/profiles           {profiles: [{name, active}]}
//   - POST /api/toggle             {enabled}
//   - POST /api/profiles/activate  {name}
//
// # Error Handling
//
// Every read failure (connection refused, timeout, non-2xx status, a body
// that does not decode) is reported as an error wrapping ErrUnreachable, and
// no partial payload is returned. Every write failure wraps
// ErrCommandFailed. Callers classify with errors.Is:
//
//	status, err := client.FetchStatus(ctx)
//	if errors.Is(err, keyrx.ErrUnreachable) {
//		// show "not running", try again on the next tick
//	}
//
// The client never retries. Retry policy belongs to the poller.
//
// # Request Handling
//
// All requests:
//   - Are bounded by the client timeout (2 seconds unless configured)
//   - Set Accept: application/json and User-Agent: keyrx-tray/<version>
//   - Carry a fresh X-Request-ID so daemon logs can be correlated
//
// # Mock Mode
//
// Mock starts with remapping enabled and the profiles default (active),
// gaming and coding. Acknowledged writes change its state, so a profile
// refresh after a switch reports the new active profile just as the real
// daemon would. FailReads and FailWrites inject failures for tests.
package keyrx

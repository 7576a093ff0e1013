// Package services defines shared utilities consumed by the controller, the
// workspace store, and the remote API client.
//
// Key responsibilities:
//   - Context helpers that stamp story IDs, operation names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry a
//     consistent classification (validation, configuration, not found,
//     transient) that logs can report.
//
// Use these helpers when wiring new controller or storage logic so operational
// behaviour stays uniform across the client.
package services

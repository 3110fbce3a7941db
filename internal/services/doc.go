// Package services defines shared utilities consumed by the analysis pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video paths, phase names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures carry
//     consistent classification across subsystems.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform.
package services

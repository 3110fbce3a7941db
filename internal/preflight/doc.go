// Package preflight provides readiness checks for external services
// and filesystem paths that shelfscan depends on.
//
// These checks run in two contexts:
//   - The analyze command calls RunAll before starting a video run.
//     If any check fails, the run aborts instead of wasting minutes of
//     extraction on a doomed pipeline.
//   - The CLI "shelfscan config check" command uses individual check
//     functions (CheckVisionFromConfig, CheckDirectoryAccess) to
//     display service health.
//
// Checks that only mirror configuration (the whisper model path) are
// gated by their config toggle; everything else always runs.
package preflight

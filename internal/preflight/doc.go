// Package preflight provides readiness checks for the binaries and
// filesystem paths a generate run depends on.
//
// These checks run in two contexts:
//   - "timeqr generate" calls ForGenerate before probing so a missing audio
//     file or read-only output directory fails before any work starts.
//   - "timeqr check" uses CheckSystemDeps and CheckDirectoryAccess to display
//     host readiness.
package preflight

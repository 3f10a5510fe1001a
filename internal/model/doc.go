// Package model provides the data types shared by the trigger engine,
// the saved-variable store, and the CLI.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Channel names are opaque string keys; matching on them is exact
//   - Zone labels are matched case-insensitively via FoldLabel
//   - Volumes are float64 in [0,1]; out-of-range values are the caller's problem
//   - All JSON tags use snake_case
package model

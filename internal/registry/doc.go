// Package registry implements the Channel Registry: the set of known sound
// channels and access to their current volumes.
//
// CVars keeps values as text in the store, the way the game client keeps
// console variables. Memory is a map-backed registry for tests and the
// scenario harness.
//
// Both clamp written values into [0, 1] and report model.DefaultVolume for
// a channel whose value is missing or cannot be parsed.
package registry

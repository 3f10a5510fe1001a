// Package engine implements the zone trigger engine.
//
// The engine decides, for every known sound channel, whether a trigger
// profile currently overrides it and to what value, and restores the
// channel's original value the moment no profile claims it anymore.
//
// ARCHITECTURE:
//
// Components, leaves first:
//   - ZoneIndex (index.go): folded zone label -> profile positions
//   - Evaluate (matcher.go): current location -> matching profiles
//   - Merge (merge.go): matching profiles -> one effective volume per channel
//   - Controller (controller.go): per-channel Free/Overridden transitions
//     against the persisted OverrideLedger
//
// Single-Writer Event Loop:
// Location-change notifications arrive through a Subscription and are
// enqueued. Run() drains the queue on one goroutine and calls
// RefreshEventState() for each event. All ledger and index mutation happens
// in that goroutine; Enqueue() is the only method safe from other goroutines.
//
// Subscription lifecycle:
// The engine listens for location changes only while triggers are enabled
// and at least one profile exists. RefreshEventState() starts and stops the
// Subscription as the configuration moves between those states.
//
// INVARIANTS:
//   - A channel is in the ledger iff at least one active profile claims it
//   - A ledger entry is never overwritten while it exists
//   - A pass with no location or configuration change writes nothing
package engine

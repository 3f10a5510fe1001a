// Package store provides the SQLite-backed saved-variable store.
//
// Tables:
//   - settings: the enableTriggers flag and the last known location
//   - triggers: the ordered profile list, one canonical JSON record per row
//   - original_volumes: the override ledger
//   - channels: channel values kept as CVar text
//   - passes: the log of passes that wrote at least one channel
//
// # Ledger Writes
//
// PutOriginal uses ON CONFLICT DO NOTHING: an existing original value is
// never replaced. The engine persists an entry before its first override
// write and deletes it only after the restore write succeeded.
//
// # Ordering
//
// Trigger positions are dense and start at 0; every edit that changes the
// list renumbers it inside one transaction. Passes are ordered by seq
// (the engine's logical clock), never by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store

// Package harness runs YAML scenarios against the real trigger engine.
//
// Each scenario gets a fresh in-memory SQLite store, an in-memory channel
// registry and a location tracker. Steps drive the engine the way the host
// would: location changes arrive through the tracker subscription, while
// enable/disable and trigger edits call RefreshEventState directly.
//
// # Scenario Format
//
//	name: zone_walk
//	description: "Override follows the player through nested zones"
//	channels: { master: 1.0, music: 0.8 }
//	enabled: true
//	location: { realm: "Elwynn Forest", sub: "Goldshire" }
//	triggers:
//	  - name: "Test 1"
//	    priority: 10
//	    zones: ["Elwynn Forest"]
//	    volumes: { master: 0.5 }
//	ledger: {}
//	steps:
//	  - refresh: true
//	    expect:
//	      channels: { master: 0.5 }
//	      ledger: { master: 1.0 }
//	      writes: 1
//	  - location: { realm: "Westfall" }
//	    expect:
//	      ledger: {}
//
// # Step Actions
//
//   - location: set the tracker location, then drain queued events
//   - enable / disable: set the enable flag, then refresh
//   - set_channel: change channel values behind the engine's back
//   - add_trigger / remove_trigger: edit the profile list, then refresh
//   - refresh: run one pass
//
// # Golden Traces
//
// Every step produces a trace event (passes run, writes performed, ledger
// and channel values afterwards). RunWithGolden compares the canonical JSON
// trace with testdata/golden/<name>.golden via goldie.
package harness

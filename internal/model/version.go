package model

// EngineVersion is the trigger engine version reported by the CLI.
const EngineVersion = "0.3.0"

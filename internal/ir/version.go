package ir

// EngineVersion is the runscript version recorded with every journaled run.
const EngineVersion = "0.1.0"

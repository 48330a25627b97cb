// Package journal provides SQLite-backed storage for run records.
//
// The journal is an append-only log. Each row records one invocation of the
// harness: the script body and its content hash, the raw inputs, the JSON
// outputs or the error, and a logical sequence number.
//
// # Ordering
//
//   - seq is a logical clock assigned on insert, never a timestamp
//   - Listing queries order by seq with id as a binary tie-breaker
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Script hashes are computed by ir.ScriptHash and run hashes by ir.RunHash.
package journal

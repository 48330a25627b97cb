// Package ir provides the value types shared by every runscript package.
//
// A TypedValue is the {data, type} record used on both sides of a run:
// inputs carry a declared Tag, outputs carry the tag chosen from the
// runtime Kind of the value a script produced.
//
// This package imports nothing internal. Other packages depend on it,
// never the reverse.
//
// Key constraints:
//   - Tags and kinds form fixed, closed sets
//   - MarshalCanonical is the only serialization used for hashing
//   - Logical sequence numbers only, never wall-clock timestamps
package ir

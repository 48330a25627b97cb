// Package codec holds the fixed type tables of the harness.
//
// Inputs are decoded by their declared tag: the envelope is parsed and
// validated with CUE, then the decode function registered for the tag is
// applied to the data. Outputs are encoded by their runtime kind; every
// recognized kind is written with the "json" tag and its data unchanged.
//
// The tables are package-level values built once and never mutated.
package codec

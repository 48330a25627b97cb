// Package script turns a user-supplied function body into a program and
// evaluates it.
//
// The body must define a function named run. Program embeds the body in
// a fixed wrapper that calls run with the decoded inputs spread as
// positional arguments and then calls getAll() on whatever run returned:
//
//	function run(a, b) {
//	    return {getAll: () => [a + b]}
//	}
//
// Evaluation is delegated to an Engine. RisorEngine, the default, runs the
// program in an embedded Risor interpreter that has no access to the host
// filesystem, network or processes.
package script

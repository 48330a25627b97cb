// Package cases loads and executes case files.
//
// A case pairs a script body and its inputs with the outputs it must
// produce, or with a fragment of the error it must fail with:
//
//	name: add-ints
//	description: adds two integers
//	script: |
//	  function run(a, b) {
//	    return {getAll: () => [a + b]}
//	  }
//	inputs:
//	  - {data: 2, type: int}
//	  - {data: 3, type: int}
//	expect:
//	  - {data: 5, type: json}
//
// Outputs are compared by canonical JSON, so 5 and 5.0 match.
package cases

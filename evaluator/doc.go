/*
Package evaluator builds terms for the decision procedure from expression
trees.

Declared variables become term variables, numeric literals become exact
constants. Calls of sin and cos are replaced by their series approximations
(see package trig), calls of Abs by the absolute value. The builder checks
that boolean and arithmetic sub-expressions are used where they belong: a
comparison cannot be an operand of +, and a sum cannot be a condition.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package evaluator

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.evaluator'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.evaluator")
}

/*
Package grammar parses single-line infix expressions over the declared
variables and translates them to prefix form.

Expressions follow Python's operator precedence (lowest first):

	or
	and
	not
	comparisons, chained:  a <= b < c
	+ -
	* /
	unary - + ~
	**                      right associative
	calls, names, numbers, parentheses

Before parsing, input is width-folded and rewritten by an explicit,
versioned SubstitutionTable (e.g. '&' becomes 'and', '^' becomes '**').

Translation to prefix form splits chained comparisons into conjunctions of
pairs, flattens nested 'And' and 'Or', and renames 'abs' to 'Abs':

	Range <= 5 & -8 <= bearing <= 8
	→  And((Range <= 5), (-8 <= bearing), (bearing <= 8))

The prefix form can be read back with ReadPrefix.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bearsolve.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.grammar")
}

/*
Package gridsat is a decision procedure for the term algebra of package smt,
restricted to variables ranging over finite sets of values.

Every variable needs a domain, which is taken from an asserted membership
disjunction

    (or (= v c1) (= v c2) ...)

Each domain value becomes a propositional input, constrained such that
exactly one value per variable is chosen. The boolean structure of the
assertions is encoded as an and-inverter circuit with go-air/gini/logic and
handed to the gini SAT solver. Comparisons other than v == c are theory atoms
with a fresh input each.

Checking is lazy: the SAT solver proposes a grid point together with truth
values for the atoms; every atom is then evaluated exactly at that point.
For an atom whose proposed truth value is wrong a refinement clause is
learned, which forbids this combination of the atom's variables' values and
truth value. This repeats until the proposal is consistent (sat), the solver
runs out of proposals (unsat) or the procedure gives up (unknown).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gridsat

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.gridsat'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.gridsat")
}

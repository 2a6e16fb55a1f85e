/*
Package smt defines a small term algebra over real-valued variables and the
interface of a decision procedure working on it.

Terms are immutable values. Real terms are built from constants, variables
and the arithmetic operations + - * / ^ together with negation and absolute
value. Boolean terms are comparisons of real terms, combined with and, or and
not. Printing a term yields a prefix notation similar to SMT-LIB:

    (and (<= Range 5) (<= (- 8) bearing))

A Solver accepts assertions and answers Sat, Unsat or Unknown. After Sat, the
solver offers a model assigning an exact rational value to every variable it
knows of. Package gridsat implements a Solver for finite domains.

Terms may be evaluated exactly at a point: they are compiled into programs
for the stack machine of package vm.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package smt

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.smt'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.smt")
}

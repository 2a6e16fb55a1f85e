/*
Package vm implements a small stack machine for exact rational arithmetic.

Terms of the decision procedure are compiled into programs of ops, which are
executed over and over again for different assignments of the variables.
All arithmetic is done with math/big rationals; a program either computes
the exact result or fails with ErrUndefined (e.g. division by zero) or
ErrInexact (e.g. an irrational power).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vm

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.vm'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.vm")
}

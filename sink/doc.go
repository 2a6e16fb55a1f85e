/*
Package sink implements consumers of model sequences.

A sink receives the models of an enumeration one at a time and is closed with
the final state of the enumerator. Sinks render their output on Close, with the
exception of CSV, which streams.

	Collect   keeps models in memory
	Table     renders a table ordered by (bearing, Range)
	Plot      renders a coloured scatter of the bearing × Range grid
	CSV       writes `bearing,Range` lines
	Multi     fans out to several sinks

Use enumerate.Drain to feed a sink from an enumerator.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sink

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.sink'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.sink")
}

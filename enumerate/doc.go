/*
Package enumerate finds all models of an equation over the grids of its
variables.

An Enumerator is a cursor. Every call to Next asks the decision procedure
for one more model; before asking, the previous model is excluded by a
blocking clause. The enumerator moves through the states

    Idle → Checking → Emitting → Checking → … → Exhausted

and ends in Exhausted once the decision procedure proves that no further
model exists. Every other ending (an unknown answer, an error, an exhausted
budget or a cancelled context) leads to Failed. Enumerators are not
restartable.

For larger domains RunSharded splits one of the grids and runs an
enumerator per part concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package enumerate

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.enumerate'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.enumerate")
}

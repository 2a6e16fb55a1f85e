/*
Package cli implements the bearsolve command line interface.

Commands:

	bearsolve translate <input> <output>   write the prefix form of an expression
	bearsolve solve <input>                enumerate the models of an expression
	bearsolve tables                       list substitution tables
	bearsolve bounds                       print approximation error bounds

Configuration is layered: built-in defaults, the user's NestedText
configuration file, an optional YAML file given with --config, environment
variables prefixed with BEARSOLVE_, and command line flags.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'bearsolve.cli'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.cli")
}

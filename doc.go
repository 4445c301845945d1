/*
Package wyc is the front end for "why", a small expression-oriented systems
language. It turns source text into a fully type-annotated abstract tree and
a stream of structured diagnostics, for consumption both by an ahead-of-time
back end and by an editor integration.

The core pipeline lives in its own packages, one per stage:

	token      source spans and the lexer's token vocabulary
	lexer      source text -> token sequence
	ast        the untyped abstract tree (UAT), the parser's output
	parser     token sequence -> UAT, with precedence balancing and
	           recover-and-continue error handling
	scope      lexical frames for variables, types, constants and methods
	types      the resolved, monomorphic type lattice
	tat        the typed abstract tree (TAT): UAT plus a late-bound
	           type-variable per expression
	typecheck  name resolution and two-phase (shallow, then deep) checking
	validate   the final pass asserting every type variable resolved
	diag       the stable diagnostic vocabulary every stage reports through

This package is the seam external collaborators call through — an editor
integration, or the cmd/wycc and cmd/wyrepl tools in this module — rather
than wiring the stage packages together themselves. It deliberately excludes
the editor's document cache and URI handling, the pretty-printer's full
layout engine, any code generation or interpretation back end, and the
package/build driver: those are the system's responsibility, not the
compiler front end's.
*/
package wyc

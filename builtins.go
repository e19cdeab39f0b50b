package katagami

import "github.com/Masterminds/sprig/v3"

// DefaultFuncs returns the builtin function set exposed to every
// render's embedded scripts and inline expressions, reachable the same
// way a template's own variables are — through ExecutionContext.lookup
// falling through to ctx.Funcs. Sprig is the recurring "give templates
// a useful standard library" dependency elsewhere in the Go template
// ecosystem (infogulch-xtemplate wires it in for exactly this role);
// here it plays the part a host language's own builtins module would,
// where `len`, `str`, `int`, and friends are simply already in scope.
func DefaultFuncs() map[string]any {
	return sprig.GenericFuncMap()
}

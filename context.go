package katagami

import "maps"

// Context provides variables to a template's expressions and scripts.
//
//	eng.RenderString("greeting", src, katagami.Context{"name": "world"}, 0)
type Context map[string]any

// Update merges other into c, overwriting existing keys, and returns c.
func (c Context) Update(other Context) Context {
	maps.Copy(c, other)
	return c
}

// clone returns a shallow copy of c.
func (c Context) clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// castHookName and exceptHookName are the well-known context keys a
// template (or the caller) can bind to customize, respectively, the
// cast_string and except_hook features. See ResolveCastString and
// ResolveExceptHook.
const (
	castHookName   = "__cast_string__"
	exceptHookName = "__except_hook__"
)

// ExecutionContext is the per-render namespace threaded through the
// compiled routine. It mirrors pongo2's own split of execution state
// into layered maps:
//
//   - Public: a copy of the caller-supplied Context for this render,
//     readable by name from embedded scripts. Assignments in a script
//     do not write back to it.
//   - Local: per-render bindings private to one render — the "local
//     frame" consulted first by lookup and hook resolution. It starts
//     empty and nothing in a render writes to it: variables (including
//     a __cast_string__ or __except_hook__) that a <?py ?> block
//     defines live in the interpreter's own scopes, which hook
//     resolution does not consult.
//   - Shared: the Engine's DefaultContext, consulted second — the
//     "global frame" analogue.
type ExecutionContext struct {
	Public Context
	Local  Context
	Shared Context

	Features FeatureSet
	Funcs    map[string]any
}

func newExecutionContext(eng *Engine, vars Context, features FeatureSet) *ExecutionContext {
	public := make(Context, len(vars))
	maps.Copy(public, vars)

	return &ExecutionContext{
		Public:   public,
		Local:    make(Context),
		Shared:   eng.options.DefaultContext,
		Features: features,
		Funcs:    eng.options.Funcs,
	}
}

// lookup resolves an identifier that the interpreter's own scopes do
// not bind: Local first, then Public (caller-supplied variables), then
// Shared (engine defaults), then Funcs (builtins).
func (ctx *ExecutionContext) lookup(name string) (any, bool) {
	if v, ok := ctx.Local[name]; ok {
		return v, true
	}
	if v, ok := ctx.Public[name]; ok {
		return v, true
	}
	if v, ok := ctx.Shared[name]; ok {
		return v, true
	}
	if v, ok := ctx.Funcs[name]; ok {
		return v, true
	}
	return nil, false
}

// ResolveCastString implements the cast_string hook lookup order:
// Local, then Shared, else the default caster (Value.String,
// fmt.Sprint-equivalent).
func ResolveCastString(ctx *ExecutionContext, v any) string {
	if hook, ok := ctx.Local[castHookName]; ok {
		if s, ok := callCaster(hook, v); ok {
			return s
		}
	}
	if hook, ok := ctx.Shared[castHookName]; ok {
		if s, ok := callCaster(hook, v); ok {
			return s
		}
	}
	return AsValue(v).String()
}

func callCaster(hook any, v any) (string, bool) {
	switch fn := hook.(type) {
	case func(any) string:
		return fn(v), true
	default:
		return "", false
	}
}

// ResolveExceptHook implements the except_hook lookup order: Local,
// then Shared, else the default handler which just renders err's
// message (Python's `str(exc_value)`).
func ResolveExceptHook(ctx *ExecutionContext, err error) string {
	if hook, ok := ctx.Local[exceptHookName]; ok {
		if s, ok := callExceptHook(hook, err); ok {
			return s
		}
	}
	if hook, ok := ctx.Shared[exceptHookName]; ok {
		if s, ok := callExceptHook(hook, err); ok {
			return s
		}
	}
	return err.Error()
}

func callExceptHook(hook any, err error) (string, bool) {
	switch fn := hook.(type) {
	case func(error) string:
		return fn(err), true
	default:
		return "", false
	}
}

package katagami

import (
	"strings"

	"github.com/chrono-meter/katagami/internal/hostlang"
)

// Yielder is what a compiled routine's generated code calls to emit a
// rendered fragment. One Yielder is created per render, bound to that
// render's ExecutionContext, so the cast_string policy can be applied
// without threading ctx through every call site in generated code.
type Yielder interface {
	// YieldString emits s verbatim.
	YieldString(s string) error
	// Yield emits v, which must already be a string unless
	// FeatureCastString is active, in which case it is passed through
	// ResolveCastString first; otherwise Yield returns a
	// *TypeMismatchError without suspending the routine.
	Yield(v any) error
}

type yielder struct {
	ctx *ExecutionContext
	raw hostlang.YieldFunc
}

func (y *yielder) YieldString(s string) error { return y.raw(s) }

func (y *yielder) Yield(v any) error {
	if s, ok := v.(string); ok {
		return y.raw(s)
	}
	if y.ctx.Features.Has(FeatureCastString) {
		return y.raw(ResolveCastString(y.ctx, v))
	}
	return &TypeMismatchError{GoType: AsValue(v).TypeName()}
}

// katagamiNamespace backs the "katagami" identifier inside compiled
// routines, giving katagami.UseFeature(...) a receiver to bind to via
// reflection, the same way a real import of the katagami package
// would.
type katagamiNamespace struct{}

func (katagamiNamespace) UseFeature(names ...string) error { return UseFeature(names...) }

// Runner drives one compiled GeneratedScript's routine against a
// render's ExecutionContext. Grounded on the original's
// Translator.render_string/render_file driving its generator via
// next()/send(), split out from Translator here so the compile step
// (parse once) and the run step (render many times against different
// contexts) are independent, matching pongo2's own template.go
// (`Execute` called repeatedly against one parsed `*Template`).
type Runner struct {
	script *GeneratedScript
	prog   *hostlang.Program
}

// NewRunner compiles script's generated Go source with go/parser and
// returns a Runner ready to execute it any number of times.
func NewRunner(script *GeneratedScript) (*Runner, error) {
	prog, err := hostlang.Compile(script.Source, script.Name, "__main__")
	if err != nil {
		return nil, translateSyntaxError(script, err)
	}
	return &Runner{script: script, prog: prog}, nil
}

// translateSyntaxError maps a host-parse failure's generated-source
// line back to its template position and quotes the offending
// template line, the same "where did this actually come from" fidelity
// a runtime failure already gets via wrapRuntimeError.
func translateSyntaxError(script *GeneratedScript, err error) error {
	se, ok := err.(*hostlang.SyntaxError)
	if !ok {
		pos, _ := script.PositionFor(1)
		return newSyntaxError(script.Name, pos, "", err)
	}
	pos, _ := script.PositionFor(se.Line)
	return newSyntaxError(script.Name, pos, script.TemplateLine(pos.Line), se.Err)
}

// Render executes the routine once against ctx and returns its output
// shaped by flags: a string by default, []byte with ReturnsBytes, or a
// *Stream with ReturnsIter (see stream.go).
func (r *Runner) Render(ctx *ExecutionContext, flags Flags) (any, error) {
	ctx.Features |= r.script.Features

	routine := hostlang.Start(func(yield hostlang.YieldFunc) error {
		y := &yielder{ctx: ctx, raw: yield}
		return hostlang.NewInterp(r.prog, r.resolver(ctx, y)).Run()
	})

	if flags&ReturnsIter != 0 {
		return newStream(routine, r.script, flags), nil
	}
	defer routine.Close()

	var sb strings.Builder
	for {
		v, ok, err := routine.Next()
		if err != nil {
			return nil, r.wrapRuntimeError(err)
		}
		if !ok {
			break
		}
		sb.WriteString(v.(string))
	}

	if flags&ReturnsBytes != 0 {
		b, err := EncodeString(sb.String(), r.script.Encoding)
		if err != nil {
			pos, _ := r.script.PositionFor(0)
			return nil, newRuntimeError(r.script.Name, pos, err)
		}
		return b, nil
	}
	return sb.String(), nil
}

// wrapRuntimeError maps a routine's terminal error to a RuntimeError
// (or returns a *TypeMismatchError unwrapped — it is its own
// recoverable kind, not folded into RuntimeError) at the template
// position its host line resolves to.
func (r *Runner) wrapRuntimeError(err error) error {
	if tm, ok := err.(*TypeMismatchError); ok {
		tm.Pos, _ = r.script.PositionFor(tm.hostLine)
		return tm
	}
	line := 0
	if pe, ok := err.(*hostlang.PosError); ok {
		line = pe.Line
		err = pe.Err
	}
	pos, _ := r.script.PositionFor(line)
	return newRuntimeError(r.script.Name, pos, err)
}

// resolver builds the free-identifier lookup a render's interpreter
// consults for everything the routine's generated source references
// that isn't a local variable it assigned itself: the two implicit
// "parameters" (ctx, y), the katagami call-surface namespace, the
// feature-hook helpers the emitter calls by name, and finally the
// template's own variables via ExecutionContext.lookup.
func (r *Runner) resolver(ctx *ExecutionContext, y *yielder) hostlang.Resolver {
	return func(name string) (any, bool) {
		switch name {
		case "ctx":
			return ctx, true
		case "y":
			return Yielder(y), true
		case "katagami":
			return katagamiNamespace{}, true
		case "ResolveCastString":
			return ResolveCastString, true
		case "ResolveExceptHook":
			return ResolveExceptHook, true
		}
		return ctx.lookup(name)
	}
}

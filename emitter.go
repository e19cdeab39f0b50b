package katagami

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chrono-meter/katagami/internal/hostlang"
)

// CodeEmitter walks a scanned template's Segments and assembles them
// into a complete, syntactically valid Go source file: a package
// clause and a single function, __main__, whose body is the
// translated template. Grounded on the original Translator's
// _exectamplate/_appendline/_embedscript trio, which plays the same
// role — accumulate translated lines, track indentation depth, and
// record a position marker per emitted line — but split here across
// CodeEmitter (assembly) and the PI handlers below (per-Kind
// translation), mirroring how pongo2 separates its parser (assembly)
// from one Execute method per tag/node type.
//
// __main__ takes no parameters: ctx and y are free identifiers in its
// body, resolved at interpretation time by the Resolver the Runner
// builds (see runner.go), not by a real Go function call — nothing
// ever invokes this source through the real Go toolchain, so there is
// no need for its signature to type-check against real argument
// values.
type CodeEmitter struct {
	name     string
	src      strings.Builder
	hostLine int
	markers  []marker
	features FeatureSet
	depth    int
	firstPI  bool
}

// NewCodeEmitter starts a fresh emission for a template named name,
// with encoding recorded (decoratively, as __encoding__) for parity
// with the original generated module's own __file__/__encoding__
// globals.
func NewCodeEmitter(name, encoding string) *CodeEmitter {
	e := &CodeEmitter{name: name, firstPI: true}
	preamble := fmt.Sprintf("package generated\n\nvar __file__ = %s\nvar __encoding__ = %s\n\nfunc __main__() error {\n",
		strconv.Quote(name), strconv.Quote(encoding))
	e.raw(preamble)
	e.hostLine = strings.Count(preamble, "\n")
	return e
}

// Emit translates a single scanned Segment, dispatching on its Kind to
// one of the four PI handlers (or the literal-text handler).
func (e *CodeEmitter) Emit(seg Segment) error {
	switch seg.Kind {
	case KindLiteral:
		return e.handleLiteral(seg)
	case KindExpression:
		return e.handleExpression(seg)
	case KindScript:
		return e.handleScript(seg)
	case KindBlock:
		return e.handleBlock(seg)
	case KindEscape:
		return e.handleEscape(seg)
	case KindPassThrough:
		return e.handlePassThrough(seg)
	default:
		return newSyntaxError(e.name, seg.Pos, "", fmt.Errorf("katagami: unknown segment kind %d", seg.Kind))
	}
}

// Finish closes the __main__ function and rejects an unbalanced block
// bridge, then returns the assembled GeneratedScript.
func (e *CodeEmitter) Finish() (*GeneratedScript, error) {
	if e.depth != 0 {
		return nil, newIndentationError(e.name, Position{}, "", fmt.Sprintf("%d unclosed block(s) at end of template", e.depth))
	}
	e.raw("\treturn nil\n}\n")
	return &GeneratedScript{
		Name:     e.name,
		Source:   e.src.String(),
		Features: e.features,
		markers:  e.markers,
	}, nil
}

// raw appends text to the generated source without touching the
// line/marker bookkeeping — used only for the fixed preamble/epilogue
// that can never be the origin of a template-position error.
func (e *CodeEmitter) raw(text string) {
	e.src.WriteString(text)
}

// writeLine appends one already-indented-relative line of generated
// Go source, advances the host line counter by however many newlines
// it introduces, and records a reverse-position marker at the line it
// starts on.
func (e *CodeEmitter) writeLine(line string, pos Position) {
	e.hostLine++
	e.markers = append(e.markers, marker{hostLine: e.hostLine, pos: pos})
	e.src.WriteString(e.indent())
	e.src.WriteString(line)
	e.src.WriteByte('\n')
	e.hostLine += strings.Count(line, "\n")
}

func (e *CodeEmitter) indent() string {
	return strings.Repeat(tab, e.depth+1)
}

func (e *CodeEmitter) handleLiteral(seg Segment) error {
	e.writeLine(fmt.Sprintf("if err := y.YieldString(%s); err != nil {\n%sreturn err\n%s}",
		strconv.Quote(seg.Body), e.indent()+tab, e.indent()), seg.Pos)
	return nil
}

// handleExpression translates "<?= E ?>". A trailing "//" comment in E
// is removed first, so it cannot swallow the rest of the generated
// statement. The generated code always
// funnels both evaluation failure and a
// non-string yield through the same `err := y.Yield(E)` check —
// y.Yield defers the string-or-cast-or-TypeMismatch decision to the
// runtime Yielder (runner.go) — and wraps it in an except_hook
// fallback only when that feature was detected.
func (e *CodeEmitter) handleExpression(seg Segment) error {
	e.markFirstExecutable(seg.Body)

	expr := strings.TrimSpace(hostlang.StripLineComment(seg.Body))
	if expr == "" {
		return newSyntaxError(e.name, seg.Pos, seg.Body, fmt.Errorf("katagami: empty expression"))
	}

	ind := e.indent()
	if e.features.Has(FeatureExceptHook) {
		e.writeLine(fmt.Sprintf(
			"if err := y.Yield(%s); err != nil {\n%sif err2 := y.YieldString(ResolveExceptHook(ctx, err)); err2 != nil {\n%sreturn err2\n%s}\n%s}",
			expr, ind+tab, ind+tab+tab, ind+tab, ind), seg.Pos)
	} else {
		e.writeLine(fmt.Sprintf("if err := y.Yield(%s); err != nil {\n%sreturn err\n%s}",
			expr, ind+tab, ind), seg.Pos)
	}
	return nil
}

// handleScript translates "<?py ... ?>": the body is already real Go
// statement source (the host language is Go), so it is re-indented
// (relative to its own common leading whitespace, not the current
// block depth — writeLine's own indent() already supplies that) and
// appended one line at a time, each against the template position of
// its own line (the PI's opening line plus however many "\n" precede
// it within the body) so a runtime error on the Nth line of a
// multi-line block maps to that line, not just the PI's first line.
func (e *CodeEmitter) handleScript(seg Segment) error {
	e.markFirstExecutable(seg.Body)

	rawLines := strings.Split(seg.Body, "\n")
	reindented := strings.Split(hostlang.Reindent(seg.Body, 0, tab), "\n")
	for i, line := range reindented {
		if strings.TrimSpace(rawLines[i]) == "" {
			continue
		}
		col := 0
		if i == 0 {
			col = seg.Pos.Column
		}
		e.writeLine(line, Position{Line: seg.Pos.Line + i, Column: col})
	}
	return nil
}

// handleBlock translates the brace-bridge syntax: "header: {" opens a
// block, "}" closes one, and "} header: {"
// (an else/elif-shaped continuation) does both at once. A template
// author's header must end in ':', which the emitter replaces with
// Go's real opening brace.
func (e *CodeEmitter) handleBlock(seg Segment) error {
	body := strings.TrimSpace(seg.Body)

	closing := strings.HasPrefix(body, "}")
	opening := strings.HasSuffix(body, "{")

	if closing {
		if e.depth == 0 {
			return newIndentationError(e.name, seg.Pos, seg.Body, "dangling block close")
		}
		e.depth--
		body = strings.TrimSpace(strings.TrimPrefix(body, "}"))
	}

	if !opening {
		if body != "" {
			return newIndentationError(e.name, seg.Pos, seg.Body, fmt.Sprintf("malformed block PI %q", seg.Body))
		}
		e.writeLine("}", seg.Pos)
		return nil
	}

	header := strings.TrimSpace(strings.TrimSuffix(body, "{"))
	if header == "" {
		e.writeLine("{", seg.Pos)
		e.depth++
		return nil
	}

	if !strings.HasSuffix(header, ":") {
		return newIndentationError(e.name, seg.Pos, seg.Body, fmt.Sprintf("block header %q must end with ':'", header))
	}
	header = strings.TrimSpace(strings.TrimSuffix(header, ":"))

	if funcOrTypePattern.MatchString(header) {
		return newIndentationError(e.name, seg.Pos, seg.Body, "func/type declarations are not allowed in a block header")
	}

	e.writeLine(header+" {", seg.Pos)
	e.depth++
	return nil
}

// funcOrTypePattern matches a header whose first token is a definition
// keyword.
var funcOrTypePattern = regexp.MustCompile(`^(func|type)\b`)

// handleEscape translates "<?\X?>" into the literal text "<?X?>" —
// the one way a template can emit what would otherwise look like a PI
// of its own.
func (e *CodeEmitter) handleEscape(seg Segment) error {
	e.writeLine(fmt.Sprintf("if err := y.YieldString(%s); err != nil {\n%sreturn err\n%s}",
		strconv.Quote(piPrefix+seg.Body+piSuffix), e.indent()+tab, e.indent()), seg.Pos)
	return nil
}

// handlePassThrough emits an unrecognized "<?...?>" span unchanged, as
// literal output text.
func (e *CodeEmitter) handlePassThrough(seg Segment) error {
	e.writeLine(fmt.Sprintf("if err := y.YieldString(%s); err != nil {\n%sreturn err\n%s}",
		strconv.Quote(seg.Body), e.indent()+tab, e.indent()), seg.Pos)
	return nil
}

// markFirstExecutable runs the feature-detection scan against the
// first executable PI's body only.
func (e *CodeEmitter) markFirstExecutable(body string) {
	if !e.firstPI {
		return
	}
	e.firstPI = false
	e.features |= detectFeatures(body)
}

// GeneratedScript is a translated template ready to compile and run:
// the Go source of its __main__ function, the feature set its first
// executable PI declared, the original template text (so a reported
// template line can be quoted back in an error), and the side-table
// for mapping a runtime error's host-source line back to the original
// template position.
type GeneratedScript struct {
	Name     string
	Source   string
	Encoding string
	Features FeatureSet
	Template string
	markers  []marker
}

// TemplateLine returns the text of line (1-based) of g.Template, or ""
// if line falls outside it.
func (g *GeneratedScript) TemplateLine(line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(g.Template, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// PositionFor maps hostLine, a line number within g.Source, back to
// the template Position that produced it. If hostLine falls strictly
// between two markers (e.g. inside a multi-line embedded expression
// the evaluator reports by its enclosing statement's line) it resolves
// to the nearest marker at or before it, matching the original's own
// "best effort" position recovery for errors raised mid-statement. If
// no marker precedes hostLine, it returns Position{Line: hostLine} and
// false.
func (g *GeneratedScript) PositionFor(hostLine int) (Position, bool) {
	best, found := Position{Line: hostLine}, false
	for _, m := range g.markers {
		if m.hostLine > hostLine {
			break
		}
		best, found = m.pos, true
	}
	return best, found
}

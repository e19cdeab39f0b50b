package hostlang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
)

// Program is a parsed routine body ready for interpretation. It holds
// the whole compiled file (so a syntax error anywhere in it surfaces
// with a correct line) but interpretation only ever walks Body, the
// statement list of the single entry function the emitter generated.
type Program struct {
	Fset *token.FileSet
	File *ast.File
	Body []ast.Stmt
}

// Compile parses source, a complete Go source file containing a
// function declaration named entryFunc, and returns its body statement
// list for execution by an Interp. filename is used only for position
// reporting in errors.
//
// source is real, syntactically complete Go: the emitter is
// responsible for producing valid package, import, and
// function-declaration scaffolding around the translated template
// body, mirroring how pongo2's own parser.go consumes a fully
// tokenized template rather than a bare fragment.
func Compile(source, filename, entryFunc string) (*Program, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.AllErrors)
	if err != nil {
		line, col := firstErrorPos(err)
		return nil, &SyntaxError{Err: err, Line: line, Column: col}
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || fn.Name.Name != entryFunc {
			continue
		}
		if fn.Body == nil {
			return nil, &SyntaxError{Err: fmt.Errorf("hostlang: func %s has no body", entryFunc)}
		}
		return &Program{Fset: fset, File: file, Body: fn.Body.List}, nil
	}

	return nil, &SyntaxError{Err: fmt.Errorf("hostlang: no func %s in compiled source", entryFunc)}
}

// LineOf returns the 1-based line of pos within the program's file set.
func (p *Program) LineOf(pos token.Pos) int {
	return p.Fset.Position(pos).Line
}

// SyntaxError reports a failure to parse a compiled routine's source.
// Distinct from a PosError: it comes from go/parser before any
// position side-table exists to translate the line back to the
// original template, so Line/Column are the generated source's own
// coordinates — it is the caller's job (see translateSyntaxError) to
// map Line through its own marker side-table back to a template
// position.
type SyntaxError struct {
	Err    error
	Line   int
	Column int
}

func (e *SyntaxError) Error() string { return e.Err.Error() }
func (e *SyntaxError) Unwrap() error { return e.Err }

// firstErrorPos extracts the line/column go/parser reported for the
// first error in a (possibly multi-error) parse failure.
func firstErrorPos(err error) (line, col int) {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return list[0].Pos.Line, list[0].Pos.Column
	}
	return 0, 0
}

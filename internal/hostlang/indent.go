package hostlang

import (
	"go/scanner"
	"go/token"
	"strings"
)

// Reindent re-indents src, an embedded script or expression body taken
// verbatim from between a PI's delimiters, to depth levels of unit,
// after first removing whatever common leading whitespace its lines
// already share. Go statements carry no indentation-sensitive meaning
// of their own, but the emitted source is re-read by go/parser and,
// more importantly, by human readers and by error messages that quote
// a line of generated source, so it is still normalized for cosmetic
// and diagnostic fidelity.
func Reindent(src string, depth int, unit string) string {
	lines := strings.Split(src, "\n")

	common := -1
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common == -1 || n < common {
			common = n
		}
	}
	if common == -1 {
		common = 0
	}

	prefix := strings.Repeat(unit, depth)
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			out[i] = ""
			continue
		}
		dedented := trimmed
		if len(trimmed) >= common {
			dedented = trimmed[common:]
		}
		out[i] = prefix + dedented
	}
	return strings.Join(out, "\n")
}

// StripLineComment removes a trailing "// ..." line comment from src,
// using go/scanner so a "//" inside a string or rune literal is left
// alone. Used by the emitter's inline-expression handler, so an
// author's trailing comment inside "<?= ?>" does not comment out the
// rest of the generated statement.
func StripLineComment(src string) string {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, scanner.ScanComments)

	cut := len(src)
	for {
		pos, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.COMMENT {
			cut = file.Offset(pos)
			break
		}
	}
	return strings.TrimRight(src[:cut], " \t")
}

// FirstTokens returns the literal text of the first n non-comment
// tokens of src, skipping leading whitespace. Used by the translator's
// feature-detection scan, which must recognize a
// katagami.UseFeature(...) call by its token shape before the whole
// script is assembled into a parseable file.
func FirstTokens(src string, n int) []string {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, 0)

	out := make([]string, 0, n)
	for len(out) < n {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if lit != "" {
			out = append(out, lit)
		} else {
			out = append(out, tok.String())
		}
	}
	return out
}

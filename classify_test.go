package katagami

import "testing"

func TestClassifyPI(t *testing.T) {
	cases := []struct {
		body     string
		wantKind Kind
		wantRest string
	}{
		{"=1+1", KindExpression, "1+1"},
		{"py x := 1", KindScript, " x := 1"},
		{"for _, n := range ns: {", KindBlock, "for _, n := range ns: {"},
		{"}", KindBlock, "}"},
		{`\foo`, KindEscape, "foo"},
		{"bogus", KindPassThrough, "<?bogus?>"},
	}

	for _, c := range cases {
		kind, rest := ClassifyPI(c.body)
		if kind != c.wantKind {
			t.Errorf("ClassifyPI(%q) kind = %v, want %v", c.body, kind, c.wantKind)
		}
		if rest != c.wantRest {
			t.Errorf("ClassifyPI(%q) rest = %q, want %q", c.body, rest, c.wantRest)
		}
	}
}

func TestClassifyPIOrderPrefersExpressionOverScript(t *testing.T) {
	// A body starting with "=py" is an expression "py...", not a script —
	// the '=' prefix rule wins because spec.md fixes expression as the
	// first rule checked.
	kind, rest := ClassifyPI("=py")
	if kind != KindExpression || rest != "py" {
		t.Errorf("got kind=%v rest=%q", kind, rest)
	}
}

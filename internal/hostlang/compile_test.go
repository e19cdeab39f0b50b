package hostlang

import "testing"

func TestCompileFindsEntryFunc(t *testing.T) {
	prog, err := Compile(sprintfWrap("\tx := 1\n\t_ = x"), "t.go", "__main__")
	if err != nil {
		t.Fatal(err)
	}
	// sprintfWrap appends its own "return nil", so: x := 1, _ = x, return nil.
	if len(prog.Body) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Body))
	}
}

func TestCompileRejectsSyntaxError(t *testing.T) {
	_, err := Compile("package generated\n\nfunc __main__() error {\n\tif {\n}\n", "t.go", "__main__")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("got %v (%T), want *SyntaxError", err, err)
	}
	if se.Line <= 0 {
		t.Fatalf("got Line %d, want the go/parser-reported line of the malformed \"if\"", se.Line)
	}
}

func TestCompileRejectsMissingEntryFunc(t *testing.T) {
	_, err := Compile("package generated\n\nfunc other() error { return nil }\n", "t.go", "__main__")
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got %v (%T), want *SyntaxError", err, err)
	}
}

func sprintfWrap(body string) string {
	return "package generated\n\nfunc __main__() error {\n" + body + "\n\treturn nil\n}\n"
}

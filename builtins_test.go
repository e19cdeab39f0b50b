package katagami

import "testing"

func TestDefaultFuncsIncludesSprigFunctions(t *testing.T) {
	funcs := DefaultFuncs()
	for _, name := range []string{"upper", "lower", "trim", "default"} {
		if _, ok := funcs[name]; !ok {
			t.Errorf("want sprig function %q in DefaultFuncs()", name)
		}
	}
}

func TestTemplateCallsSprigFunction(t *testing.T) {
	eng := NewEngine(Options{})
	out, err := eng.RenderString("t", `<?=upper("hi")?>`, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "HI" {
		t.Errorf("got %q", out)
	}
}

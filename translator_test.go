package katagami

import (
	"errors"
	"strings"
	"testing"
)

func render(t *testing.T, src string, vars Context) (any, error) {
	t.Helper()
	eng := NewEngine(Options{})
	return eng.RenderString("t", src, vars, 0)
}

func TestRenderLiteralText(t *testing.T) {
	out, err := render(t, "hello, world", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello, world" {
		t.Errorf("got %q", out)
	}
}

func TestRenderInlineExpression(t *testing.T) {
	out, err := render(t, `hello, <?="world"?>`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello, world" {
		t.Errorf("got %q", out)
	}
}

func TestRenderExpressionFromContext(t *testing.T) {
	out, err := render(t, `hello, <?=name?>`, Context{"name": "gopher"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello, gopher" {
		t.Errorf("got %q", out)
	}
}

func TestRenderEmbeddedScript(t *testing.T) {
	out, err := render(t, `<?py x := "a" + "b" ?><?=x?>`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "ab" {
		t.Errorf("got %q", out)
	}
}

func TestRenderBlockBridgeFor(t *testing.T) {
	src := `<? for _, n := range names: {?>(<?=n?>)<?}?>`
	out, err := render(t, src, Context{"names": []string{"a", "b", "c"}})
	if err != nil {
		t.Fatal(err)
	}
	if out != "(a)(b)(c)" {
		t.Errorf("got %q", out)
	}
}

func TestRenderBlockBridgeIfElse(t *testing.T) {
	src := `<? if flag: {?>yes<?} else: {?>no<?}?>`

	out, err := render(t, src, Context{"flag": true})
	if err != nil {
		t.Fatal(err)
	}
	if out != "yes" {
		t.Errorf("got %q", out)
	}

	out, err = render(t, src, Context{"flag": false})
	if err != nil {
		t.Fatal(err)
	}
	if out != "no" {
		t.Errorf("got %q", out)
	}
}

func TestRenderEscapedPI(t *testing.T) {
	out, err := render(t, `literal <?\=not an expr?> text`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "literal <?=not an expr?> text" {
		t.Errorf("got %q", out)
	}
}

func TestRenderPassThroughUnrecognizedPI(t *testing.T) {
	out, err := render(t, `<?xml version="1.0"?><p>hi</p>`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != `<?xml version="1.0"?><p>hi</p>` {
		t.Errorf("got %q", out)
	}
}

func TestRenderTypeMismatchWithoutCastString(t *testing.T) {
	_, err := render(t, `<?=1?>`, nil)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("got %v, want *TypeMismatchError", err)
	}
	if !strings.Contains(tm.Error(), "int64") {
		t.Errorf("got %q", tm.Error())
	}
	if tm.Pos.Line != 1 {
		t.Errorf("got Pos %+v, want line 1", tm.Pos)
	}
}

func TestRenderTypeMismatchReportsItsOwnTemplateLine(t *testing.T) {
	_, err := render(t, "line one\nline two\nx<?=1?>\n", nil)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("got %v, want *TypeMismatchError", err)
	}
	if tm.Pos.Line != 3 {
		t.Errorf("got Pos %+v, want line 3", tm.Pos)
	}
}

func TestRenderCastStringFeature(t *testing.T) {
	src := `<?py katagami.UseFeature("cast_string") ?><?=1?>`
	out, err := render(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1" {
		t.Errorf("got %q", out)
	}
}

func TestRenderExceptHookFeatureRecoversTypeMismatch(t *testing.T) {
	src := `<?py katagami.UseFeature("except_hook") ?><?=1?>`
	out, err := render(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.(string), "int64") {
		t.Errorf("got %q, want it to mention the mismatched type", out)
	}
}

func TestRenderUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := render(t, `<?=missing?>`, nil)
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("got %v, want *RuntimeError", err)
	}
}

func TestRenderMalformedEmbeddedScriptIsSyntaxError(t *testing.T) {
	_, err := render(t, "line one\nx<?py )(?>\n", nil)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *SyntaxError", err)
	}
	if se.Pos.Line != 2 {
		t.Errorf("got Pos %+v, want line 2", se.Pos)
	}
	if !strings.Contains(se.Line, ")(") {
		t.Errorf("got Line %q, want it to quote the offending template line", se.Line)
	}
}

func TestRenderDanglingBlockCloseIsIndentationError(t *testing.T) {
	_, err := render(t, `<?}?>`, nil)
	var ie *IndentationError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want *IndentationError", err)
	}
}

func TestRenderUnclosedBlockIsIndentationError(t *testing.T) {
	_, err := render(t, `<? if 1 == 1: {?>unterminated`, nil)
	var ie *IndentationError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want *IndentationError", err)
	}
}

func TestRenderReturnsBytes(t *testing.T) {
	eng := NewEngine(Options{})
	out, err := eng.RenderString("t", "hello", nil, ReturnsBytes)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := out.([]byte)
	if !ok || string(b) != "hello" {
		t.Errorf("got %#v", out)
	}
}

func TestRenderReturnsIterStreamsFragments(t *testing.T) {
	eng := NewEngine(Options{})
	out, err := eng.RenderString("t", `a<?="b"?>c`, nil, ReturnsIter)
	if err != nil {
		t.Fatal(err)
	}
	stream, ok := out.(*Stream)
	if !ok {
		t.Fatalf("got %#v, want *Stream", out)
	}

	var got strings.Builder
	for {
		frag, ok, err := stream.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got.WriteString(frag.(string))
	}
	if got.String() != "abc" {
		t.Errorf("got %q", got.String())
	}
}

func TestRenderReturnsRendererSkipsExecution(t *testing.T) {
	eng := NewEngine(Options{})
	out, err := eng.RenderString("t", "<?=1+1?>", nil, ReturnsRenderer)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.(*Translator); !ok {
		t.Fatalf("got %#v, want *Translator", out)
	}
}

package hostlang

import "testing"

func TestReindentDedentsCommonPrefixThenReindents(t *testing.T) {
	src := "    x := 1\n    y := 2"
	got := Reindent(src, 1, "\t")
	want := "\tx := 1\n\ty := 2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReindentPreservesBlankLines(t *testing.T) {
	src := "  a\n\n  b"
	got := Reindent(src, 0, "\t")
	want := "a\n\nb"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripLineCommentRemovesTrailingComment(t *testing.T) {
	got := StripLineComment(`x := 1 // note`)
	if got != "x := 1" {
		t.Errorf("got %q", got)
	}
}

func TestStripLineCommentIgnoresSlashesInStrings(t *testing.T) {
	src := `x := "http://example.com"`
	if got := StripLineComment(src); got != src {
		t.Errorf("got %q, want source unchanged", got)
	}
}

func TestFirstTokensReturnsLiteralText(t *testing.T) {
	got := FirstTokens(`katagami.UseFeature("cast_string")`, 6)
	want := []string{"katagami", ".", "UseFeature", "(", `"cast_string"`, ")"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFirstTokensStopsAtRequestedCount(t *testing.T) {
	got := FirstTokens(`a b c d e`, 2)
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 tokens", got)
	}
}

// Package katagami implements a small XML/HTML template engine that
// translates template source into a Go program fragment and executes it.
//
// Templates interleave literal markup with processing instructions
// delimited by "<?" and "?>". Four kinds of instruction are recognized:
//
//	<?= expr ?>         inline Go expression
//	<?py stmts ?>        embedded Go statements
//	<? hdr: {?> … <?}?>  block bridge (if/for/etc.)
//	<?\... ?>            escape, emits the instruction literally
//
// Rendering happens in two stages. Translate (used internally by the
// Engine.Render* methods) turns template source into a GeneratedScript: a
// small Go source file defining a __main__ function that streams out
// string fragments as it runs. The runner then parses that source with
// go/parser and tree-walks it, translating any parse or runtime error
// back into the line and column of the original template.
//
// A tiny example:
//
//	eng := katagami.NewEngine(katagami.Options{})
//	out, err := eng.RenderString("greeting", "hello, <?=name?>",
//	    katagami.Context{"name": "world"}, 0)
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(out) // Output: hello, world
package katagami

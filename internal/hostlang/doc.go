// Package hostlang implements the restricted Go subset that katagami's
// emitted routines are written in and run against.
//
// The teacher's lexer (lexer.go) hand-rolls a token scanner for pongo2's
// own expression language; here the host language is Go itself, so
// scanning and parsing are delegated to go/scanner and go/parser, and
// this package supplies only what those stop short of: a small
// tree-walking evaluator over the parsed statements, and the
// suspend/resume routine that lets a compiled function body stream
// string fragments to its caller one yield at a time.
//
// Nothing in this package knows about templates, processing
// instructions, or katagami's ExecutionContext — it is handed a
// Resolver closure for free identifiers and otherwise only deals in
// Go syntax trees and reflect.Value. The katagami package supplies the
// Resolver and adapts the result back into its own types.
package hostlang

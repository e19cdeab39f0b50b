package katagami

import "github.com/chrono-meter/katagami/internal/hostlang"

// UseFeature is the function identifier a template calls to opt into
// an engine feature:
//
//	<?py
//	    katagami.UseFeature("cast_string", "except_hook")
//	?>
//
// It is bound into every render's interpreter scope (see runner.go) so
// the call executes harmlessly at runtime — detection itself already
// happened earlier, at translation time, by scanning the same PI's
// tokens before the feature set could affect how the emitter shapes
// later PIs. UseFeature's only real job is to keep the statement a
// valid, resolvable call instead of a no-op the interpreter would
// reject as referencing an undefined function.
func UseFeature(names ...string) error { return nil }

// detectFeatures scans body, the first executable PI's text, for a
// katagami.UseFeature("name", ...) call and returns the FeatureSet it
// declares. Detection is purely lexical (hostlang.FirstTokens), not a
// real parse: the emitter must decide the FeatureSet before the first
// <?= ?> it shapes, so it cannot wait for the whole script to be
// assembled into one parseable file.
func detectFeatures(body string) FeatureSet {
	tokens := hostlang.FirstTokens(body, 64)

	var fs FeatureSet
	for i := 0; i+3 < len(tokens); i++ {
		if tokens[i] != "katagami" || tokens[i+1] != "." || tokens[i+2] != "UseFeature" || tokens[i+3] != "(" {
			continue
		}
		for j := i + 4; j < len(tokens) && tokens[j] != ")"; j++ {
			name := unquoteToken(tokens[j])
			if bit, ok := featureNames[name]; ok {
				fs |= bit
			}
		}
	}
	return fs
}

func unquoteToken(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return tok[1 : len(tok)-1]
	}
	return tok
}

package katagami

// PI delimiters. Non-greedy, multiline matching is handled by scanner.go.
const (
	piPrefix = "<?"
	piSuffix = "?>"
)

// tab is the indentation unit used by the CodeEmitter and the
// IndentNormalizer when re-prefixing embedded Go snippets.
const tab = "\t"

// Flags control Engine.Render* output shape. They are bitwise-ORed.
type Flags int

const (
	// ReturnsBytes joins the rendered fragments as []byte, encoded with
	// the template's detected encoding, instead of string.
	ReturnsBytes Flags = 1 << iota

	// ReturnsIter returns an iterator over fragments instead of joining
	// them eagerly.
	ReturnsIter

	// ReturnsRenderer returns the compiled *Translator itself rather
	// than rendering it. Not combinable with a caller-supplied Context.
	ReturnsRenderer
)

// FeatureSet is the bitwise-OR of template-activated engine features.
// A template activates a feature by calling katagami.UseFeature(name)
// in its first executable embedded script; see detectFeatures in
// features.go and handleScript in emitter.go.
type FeatureSet int

const (
	// FeatureCastString makes non-string yields from <?= ?> coerced via
	// a __cast_string__ hook (or fmt.Sprint) instead of raising
	// TypeMismatchError.
	FeatureCastString FeatureSet = 1 << iota

	// FeatureExceptHook wraps every inline expression in an error-check
	// that, on failure, consults a __except_hook__ hook instead of
	// propagating the error.
	FeatureExceptHook
)

// featureNames maps a katagami.UseFeature(name) argument (see
// detectFeatures in features.go) to the feature bit it activates.
var featureNames = map[string]FeatureSet{
	"cast_string": FeatureCastString,
	"except_hook": FeatureExceptHook,
}

// Has reports whether all bits in other are set in fs.
func (fs FeatureSet) Has(other FeatureSet) bool {
	return fs&other == other
}

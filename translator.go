package katagami

import "github.com/google/uuid"

// Translator holds one template's compiled result: the generated Go
// source (Script) and the Runner ready to execute it repeatedly
// against different render contexts. Grounded on the original
// Translator class's _makescript (encoding detection, PI scanning, and
// script assembly run once) and on pongo2's template.go
// (newTemplateString parses once, Execute runs many times against the
// same parsed tree).
type Translator struct {
	Name   string
	Script *GeneratedScript
	Runner *Runner
}

// Translate compiles raw template source into a Translator. An empty
// name is replaced with a synthetic one, mirroring the original's
// "<template-script#N>" placeholder for templates rendered from a bare
// string rather than a named file.
func Translate(name string, raw []byte) (*Translator, error) {
	if name == "" {
		name = syntheticName()
	}

	script, err := compileScript(name, raw)
	if err != nil {
		return nil, err
	}

	runner, err := NewRunner(script)
	if err != nil {
		return nil, err
	}

	return &Translator{Name: name, Script: script, Runner: runner}, nil
}

func compileScript(name string, raw []byte) (*GeneratedScript, error) {
	encoding := DetectEncoding(raw)

	emitter := NewCodeEmitter(name, encoding)
	for _, seg := range ScanTemplate(string(raw)) {
		if err := emitter.Emit(seg); err != nil {
			return nil, err
		}
	}
	script, err := emitter.Finish()
	if err != nil {
		return nil, err
	}
	script.Encoding = encoding
	script.Template = string(raw)
	return script, nil
}

func syntheticName() string {
	return "<template-" + uuid.NewString() + ">"
}

// Render executes the translator once against vars, using eng's
// default context and builtin functions, shaped by flags.
func (t *Translator) Render(eng *Engine, vars Context, flags Flags) (any, error) {
	ctx := newExecutionContext(eng, vars, 0)
	return t.Runner.Render(ctx, flags)
}

package katagami

import (
	"io/fs"
	"sync"

	"github.com/juju/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options configures an Engine. Grounded on pongo2's TemplateSet
// (template_sets.go), which bundles together the default
// context/filter/tag registries a set of templates shares; here
// narrowed to the three things a katagami render actually needs
// beyond the template source itself.
type Options struct {
	// DefaultContext supplies variables visible to every render unless
	// shadowed by the caller's own Context or a template's own
	// __cast_string__/__except_hook__ definitions (the "Shared" frame
	// in ExecutionContext.lookup).
	DefaultContext Context

	// Funcs is the builtin function set; nil defaults to DefaultFuncs().
	Funcs map[string]any

	// Filesystem backs RenderFile; nil defaults to the OS filesystem.
	// Swappable for tests (afero.NewMemMapFs()), matching the spec's
	// placement of real file I/O behind an external collaborator.
	Filesystem afero.Fs

	// Logger receives translation/render diagnostics; nil defaults to
	// a no-op logger.
	Logger *zap.Logger
}

// Engine is katagami's render entry point: one Engine per application,
// holding the shared Options and a cache of translators compiled from
// a file or resource path (so a long-lived server doesn't re-translate
// the same template on every request). Grounded on pongo2's
// TemplateSet (template_sets.go), which plays the identical role for
// pongo2's own render-from-path calls.
type Engine struct {
	options Options

	mu    sync.RWMutex
	cache map[string]*Translator
}

// NewEngine builds an Engine from opts, filling in defaults for any
// zero-valued field.
func NewEngine(opts Options) *Engine {
	if opts.DefaultContext == nil {
		opts.DefaultContext = make(Context)
	}
	if opts.Funcs == nil {
		opts.Funcs = DefaultFuncs()
	}
	if opts.Filesystem == nil {
		opts.Filesystem = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{options: opts, cache: make(map[string]*Translator)}
}

// Must panics if err is non-nil, otherwise returns t — for package-level
// Translator variables initialized from a literal template string.
func Must(t *Translator, err error) *Translator {
	if err != nil {
		panic(err)
	}
	return t
}

// RenderString translates src under name and renders it against vars.
// With flags&ReturnsRenderer set, it returns the compiled *Translator
// instead of rendering (vars is ignored in that case).
func (eng *Engine) RenderString(name, src string, vars Context, flags Flags) (any, error) {
	t, err := Translate(name, []byte(src))
	if err != nil {
		logRenderError(eng.options.Logger, name, err)
		return nil, err
	}
	logTranslation(eng.options.Logger, t.Script)

	if flags&ReturnsRenderer != 0 {
		return t, nil
	}
	out, err := t.Render(eng, vars, flags)
	if err != nil {
		logRenderError(eng.options.Logger, name, err)
	}
	return out, err
}

// RenderFile reads path from eng's Filesystem, translates it (cached
// by path across calls), and renders it against vars.
func (eng *Engine) RenderFile(path string, vars Context, flags Flags) (any, error) {
	t, err := eng.translateCached(path, func() ([]byte, error) {
		return afero.ReadFile(eng.options.Filesystem, path)
	})
	if err != nil {
		return nil, err
	}
	if flags&ReturnsRenderer != 0 {
		return t, nil
	}
	out, err := t.Render(eng, vars, flags)
	if err != nil {
		logRenderError(eng.options.Logger, path, err)
	}
	return out, err
}

// RenderResource reads name from res, an arbitrary fs.FS (an embedded
// resource bundle, an HTTP filesystem, or anything else satisfying the
// standard library's read-only filesystem interface), translates it
// (cached by name), and renders it against vars.
func (eng *Engine) RenderResource(res fs.FS, name string, vars Context, flags Flags) (any, error) {
	t, err := eng.translateCached("resource:"+name, func() ([]byte, error) {
		return fs.ReadFile(res, name)
	})
	if err != nil {
		return nil, err
	}
	if flags&ReturnsRenderer != 0 {
		return t, nil
	}
	out, err := t.Render(eng, vars, flags)
	if err != nil {
		logRenderError(eng.options.Logger, name, err)
	}
	return out, err
}

func (eng *Engine) translateCached(key string, read func() ([]byte, error)) (*Translator, error) {
	eng.mu.RLock()
	t, ok := eng.cache[key]
	eng.mu.RUnlock()
	if ok {
		return t, nil
	}

	raw, err := read()
	if err != nil {
		return nil, errors.Annotatef(err, "reading template %s", key)
	}

	t, err = Translate(key, raw)
	if err != nil {
		logRenderError(eng.options.Logger, key, err)
		return nil, err
	}
	logTranslation(eng.options.Logger, t.Script)

	eng.mu.Lock()
	eng.cache[key] = t
	eng.mu.Unlock()
	return t, nil
}

package katagami

import (
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
)

func TestEngineRenderFileUsesConfiguredFilesystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/templates/greeting.tmpl", []byte("hi <?=name?>"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(Options{Filesystem: fs})

	out, err := eng.RenderFile("/templates/greeting.tmpl", Context{"name": "gopher"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi gopher" {
		t.Errorf("got %q", out)
	}
}

func TestEngineRenderFileCachesTranslation(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/t.tmpl", []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(Options{Filesystem: fs})

	if _, err := eng.RenderFile("/t.tmpl", nil, 0); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/t.tmpl", []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := eng.RenderFile("/t.tmpl", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "v1" {
		t.Errorf("got %q, want cached translation v1", out)
	}
}

func TestEngineRenderResource(t *testing.T) {
	res := fstest.MapFS{
		"hello.tmpl": &fstest.MapFile{Data: []byte("hello <?=who?>")},
	}
	eng := NewEngine(Options{})

	out, err := eng.RenderResource(res, "hello.tmpl", Context{"who": "world"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world" {
		t.Errorf("got %q", out)
	}
}

func TestEngineDefaultContextIsSharedAcrossRenders(t *testing.T) {
	eng := NewEngine(Options{DefaultContext: Context{"app": "katagami"}})
	out, err := eng.RenderString("t", "<?=app?>", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "katagami" {
		t.Errorf("got %q", out)
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want Must to panic on a translation error")
		}
	}()
	Must(Translate("t", []byte("<?}?>")))
}

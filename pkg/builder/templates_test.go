package builder

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

func templateEngine(t *testing.T, files map[string]string) *gotemplate.Engine {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	engine, err := gotemplate.New(gotemplate.WithFS(fsys))
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	return engine
}

func TestRenderFragmentExposesNamingHelpers(t *testing.T) {
	engine := templateEngine(t, map[string]string{
		"field.tpl": `<input name="{{ field_name("street") }}" value="{{ value }}">`,
	})

	person := personRecord()
	person.SetCollection("addresses", []model.Record{
		model.NewMapRecord("7", map[string]any{"street": "Rua A"}),
	})

	form := New(scope.New("person", scope.WithRecord(person)),
		WithRegistry(personRegistry(t)),
		WithTemplates(engine),
	)

	got, err := form.FieldsFor("addresses", func(b Builder) (string, error) {
		street, _ := b.Scope().Record().(*model.MapRecord).Attribute("street")
		return b.RenderFragment("field", map[string]any{"value": street})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<input name="person[addresses_attributes][7][street]" value="Rua A">`
	if got != want {
		t.Fatalf("unexpected fragment:\n got %s\nwant %s", got, want)
	}
}

func TestRenderFragmentScopeName(t *testing.T) {
	engine := templateEngine(t, map[string]string{
		"legend.tpl": `<legend>{{ scope_name }}</legend>`,
	})

	form := New(scope.New("person"), WithTemplates(engine))
	got, err := form.RenderFragment("legend", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<legend>person</legend>` {
		t.Fatalf("unexpected fragment: %s", got)
	}
}

func TestRenderFragmentWithoutEngine(t *testing.T) {
	form := New(scope.New("person"))
	if _, err := form.RenderFragment("field", nil); err == nil || !strings.Contains(err.Error(), "no template engine") {
		t.Fatalf("expected missing-engine error, got %v", err)
	}
}

package nestedform

import (
	"strings"
	"testing"

	"github.com/goliatone/go-nestedform/pkg/builder"
	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/scope"
)

func TestFieldsForEndToEnd(t *testing.T) {
	registry := NewAssociationRegistry()
	registry.MustRegister("person", Association{
		Name:        "addresses",
		Cardinality: model.CardinalityMany,
	})

	person := model.NewMapRecord("1", nil)
	person.SetModelName("person")
	person.SetCollection("addresses", []model.Record{
		model.NewMapRecord("7", map[string]any{"street": "Rua A"}),
		model.NewMapRecord("", nil),
	})

	got, err := FieldsFor("person", person, "addresses", func(b Builder) (string, error) {
		return b.TextField("street") + b.DestroyCheckBox(), nil
	}, WithRegistry(registry))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{
		`name="person[addresses_attributes][7][street]"`,
		`value="Rua A"`,
		`name="person[addresses_attributes][new_1][street]"`,
		`name="person[addresses_attributes][new_1][_destroy]"`,
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %s in output:\n%s", fragment, got)
		}
	}
}

func TestDefaultBuilderEscapeHatch(t *testing.T) {
	marker := &markerBuilder{}
	if err := RegisterBuilder("marker", func(s scope.Scope, options ...builder.Option) builder.Builder {
		marker.FormBuilder = builder.New(s, options...)
		return marker
	}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := SetDefaultBuilder("marker"); err != nil {
		t.Fatalf("unexpected set default error: %v", err)
	}
	t.Cleanup(func() {
		if err := SetDefaultBuilder(builder.DefaultName); err != nil {
			t.Fatalf("restore default: %v", err)
		}
	})

	if _, ok := Form("person", nil).(*markerBuilder); !ok {
		t.Fatalf("expected installed default factory to be used")
	}

	// Explicit request for the stock builder still works.
	stock, err := FormWith(builder.DefaultName, "person", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := stock.(*builder.FormBuilder); !ok {
		t.Fatalf("expected stock FormBuilder, got %T", stock)
	}
}

type markerBuilder struct {
	*builder.FormBuilder
}

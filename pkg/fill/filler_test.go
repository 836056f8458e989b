package fill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/nested"
)

// scriptedDriver replays canned answers in call order.
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	fail     error
}

func (d *scriptedDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if d.fail != nil {
		return "", d.fail
	}
	if len(d.inputs) == 0 {
		return "", errors.New("scripted driver: no inputs left")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if d.fail != nil {
		return false, d.fail
	}
	if len(d.confirms) == 0 {
		return false, errors.New("scripted driver: no confirms left")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func TestCollectCollectionMintsSequentialTokens(t *testing.T) {
	driver := &scriptedDriver{
		// add?, add?, stop
		confirms: []bool{true, true, false},
		inputs:   []string{"Rua A", "Lisbon", "Rua B", "Porto"},
	}
	filler, err := New(driver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assoc := model.Association{Name: "addresses", Target: "address", Cardinality: model.CardinalityMany}
	params, err := filler.CollectCollection(context.Background(), assoc, []string{"street", "city"})
	if err != nil {
		t.Fatalf("unexpected collect error: %v", err)
	}

	want := nested.Params{
		"new_1": {"street": "Rua A", "city": "Lisbon"},
		"new_2": {"street": "Rua B", "city": "Porto"},
	}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Fatalf("unexpected params (-want +got):\n%s", diff)
	}
}

func TestCollectCollectionCounterSpansAssociations(t *testing.T) {
	driver := &scriptedDriver{
		confirms: []bool{true, false, true, false},
		inputs:   []string{"a", "b"},
	}
	filler, _ := New(driver)

	addresses := model.Association{Name: "addresses", Cardinality: model.CardinalityMany}
	phones := model.Association{Name: "phones", Cardinality: model.CardinalityMany}

	first, err := filler.CollectCollection(context.Background(), addresses, []string{"street"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := filler.CollectCollection(context.Background(), phones, []string{"number"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := first["new_1"]; !ok {
		t.Fatalf("expected new_1 in first association, got %v", first)
	}
	if _, ok := second["new_2"]; !ok {
		t.Fatalf("tokens must not repeat across associations in one session, got %v", second)
	}
}

func TestCollectCollectionDestroyPrompt(t *testing.T) {
	driver := &scriptedDriver{
		// add?, destroy?, stop
		confirms: []bool{true, true, false},
		inputs:   []string{"Rua A"},
	}
	filler, _ := New(driver)

	assoc := model.Association{Name: "addresses", Cardinality: model.CardinalityMany, AllowDestroy: true}
	params, err := filler.CollectCollection(context.Background(), assoc, []string{"street"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nested.DestroyRequested(params["new_1"]) {
		t.Fatalf("expected destroy marker, got %v", params["new_1"])
	}
}

func TestCollectOne(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"Faro"}}
	filler, _ := New(driver)

	assoc := model.Association{Name: "address", Cardinality: model.CardinalityOne}
	attrs, err := filler.CollectOne(context.Background(), assoc, []string{"city"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(nested.Attributes{"city": "Faro"}, attrs); diff != "" {
		t.Fatalf("unexpected attrs (-want +got):\n%s", diff)
	}

	if _, err := filler.CollectOne(context.Background(), model.Association{Name: "x", Cardinality: model.CardinalityMany}, []string{"a"}); err == nil {
		t.Fatalf("expected collection association to be rejected")
	}
}

func TestCollectErrorsPropagate(t *testing.T) {
	filler, _ := New(&scriptedDriver{fail: ErrAborted})

	assoc := model.Association{Name: "addresses", Cardinality: model.CardinalityMany}
	if _, err := filler.CollectCollection(context.Background(), assoc, []string{"street"}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected aborted error, got %v", err)
	}

	if _, err := New(nil); err == nil {
		t.Fatalf("expected nil driver to fail")
	}
	if _, err := filler.CollectCollection(context.Background(), assoc, nil); err == nil {
		t.Fatalf("expected empty attribute list to fail")
	}
}

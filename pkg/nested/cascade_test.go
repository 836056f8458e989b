package nested

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nestedform/pkg/model"
)

type recordingSaver struct {
	calls   []string
	failOn  string
	failErr error
}

func (s *recordingSaver) record(call string) error {
	s.calls = append(s.calls, call)
	if s.failOn == call {
		return s.failErr
	}
	return nil
}

func (s *recordingSaver) SaveParent(_ context.Context, parent model.Record) error {
	return s.record("save:" + parent.PrimaryKey())
}

func (s *recordingSaver) CreateChild(_ context.Context, _ model.Record, association string, attrs Attributes) error {
	return s.record(fmt.Sprintf("create:%s:%v", association, attrs["city"]))
}

func (s *recordingSaver) UpdateChild(_ context.Context, _ model.Record, association, id string, _ Attributes) error {
	return s.record("update:" + association + ":" + id)
}

func (s *recordingSaver) DestroyChild(_ context.Context, _ model.Record, association, id string) error {
	return s.record("destroy:" + association + ":" + id)
}

func TestCascadeOrdersParentThenChildren(t *testing.T) {
	saver := &recordingSaver{}
	parent := model.NewMapRecord("1", nil)

	err := Cascade(context.Background(), saver, parent,
		Changeset{
			Association: "addresses",
			Creates:     []Attributes{{"city": "Porto"}},
			Updates:     []Update{{ID: "7", Attributes: Attributes{"city": "Lisbon"}}},
			Destroys:    []string{"9"},
		},
		Changeset{
			Association: "phones",
			Creates:     []Attributes{{"city": nil}},
		},
	)
	if err != nil {
		t.Fatalf("unexpected cascade error: %v", err)
	}

	want := []string{
		"save:1",
		"create:addresses:Porto",
		"update:addresses:7",
		"destroy:addresses:9",
		"create:phones:<nil>",
	}
	if diff := cmp.Diff(want, saver.calls); diff != "" {
		t.Fatalf("unexpected call order (-want +got):\n%s", diff)
	}
}

func TestCascadeAbortsOnFirstError(t *testing.T) {
	boom := errors.New("constraint violated")
	saver := &recordingSaver{failOn: "update:addresses:7", failErr: boom}
	parent := model.NewMapRecord("1", nil)

	err := Cascade(context.Background(), saver, parent, Changeset{
		Association: "addresses",
		Updates:     []Update{{ID: "7"}, {ID: "8"}},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped saver error, got %v", err)
	}
	if len(saver.calls) != 2 {
		t.Fatalf("cascade must stop at the failing operation, calls: %v", saver.calls)
	}
}

func TestCascadeValidatesArguments(t *testing.T) {
	parent := model.NewMapRecord("1", nil)
	if err := Cascade(context.Background(), nil, parent); err == nil {
		t.Fatalf("expected nil saver to fail")
	}
	if err := Cascade(context.Background(), &recordingSaver{}, nil); err == nil {
		t.Fatalf("expected nil parent to fail")
	}
}

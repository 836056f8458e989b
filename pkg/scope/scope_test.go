package scope

import "testing"

func TestIndexSuffixExplicitWinsOverAuto(t *testing.T) {
	s := New("person", WithIndex("4"), WithAutoIndex(9))
	if got := s.IndexSuffix(); got != "[4]" {
		t.Fatalf("explicit index must win, got %q", got)
	}
	if got := s.ChildName("email"); got != "person[4][email]" {
		t.Fatalf("unexpected child name: %q", got)
	}
}

func TestIndexSuffixAutoStripsMultiMarker(t *testing.T) {
	s := New("people[]", WithAutoIndex(2))
	if got := s.IndexSuffix(); got != "[2]" {
		t.Fatalf("unexpected suffix: %q", got)
	}
	if got := s.ChildName("email"); got != "people[2][email]" {
		t.Fatalf("auto index must replace the trailing marker, got %q", got)
	}
}

func TestIndexSuffixEmptyWithoutIndexes(t *testing.T) {
	s := New("person")
	if got := s.IndexSuffix(); got != "" {
		t.Fatalf("expected empty suffix, got %q", got)
	}
	if got := s.ChildName("email"); got != "person[email]" {
		t.Fatalf("unexpected child name: %q", got)
	}
}

func TestExplicitIndexKeepsBaseUntouched(t *testing.T) {
	s := New("people[]", WithIndex("0"))
	if got := s.ChildName("email"); got != "people[][0][email]" {
		t.Fatalf("explicit index must not rewrite the base name, got %q", got)
	}
}

func TestCarrierNameIgnoresIndexes(t *testing.T) {
	s := New("person", WithIndex("3"))
	if got := s.CarrierName("addresses"); got != "person[addresses_attributes]" {
		t.Fatalf("unexpected carrier name: %q", got)
	}
}

func TestScopeBindsRecordWithoutMutation(t *testing.T) {
	record := struct{ Name string }{"ada"}
	s := New("person", WithRecord(record))
	if s.Record() == nil {
		t.Fatalf("expected bound record")
	}
	if s.BaseName() != "person" {
		t.Fatalf("unexpected base name %q", s.BaseName())
	}
}

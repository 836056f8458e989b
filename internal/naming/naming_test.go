package naming

import "testing"

type BlogPost struct{}

type HTTPRoute struct{}

func TestChild(t *testing.T) {
	if got := Child("person", "email"); got != "person[email]" {
		t.Fatalf("unexpected child name: %q", got)
	}
	if got := Child("", "email"); got != "email" {
		t.Fatalf("expected bare name for empty base, got %q", got)
	}
}

func TestIndexed(t *testing.T) {
	if got := Indexed("person", "3"); got != "person[3]" {
		t.Fatalf("unexpected indexed name: %q", got)
	}
	if got := Indexed("person", ""); got != "person" {
		t.Fatalf("empty index must not change the base, got %q", got)
	}
}

func TestAttributeCarrier(t *testing.T) {
	if got := AttributeCarrier("person", "addresses"); got != "person[addresses_attributes]" {
		t.Fatalf("unexpected carrier name: %q", got)
	}
}

func TestStripMultiMarker(t *testing.T) {
	if got := StripMultiMarker("people[]"); got != "people" {
		t.Fatalf("expected trailing marker stripped, got %q", got)
	}
	if got := StripMultiMarker("people"); got != "people" {
		t.Fatalf("unmarked base must pass through, got %q", got)
	}
}

func TestParamName(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"struct value", BlogPost{}, "blog_post"},
		{"struct pointer", &BlogPost{}, "blog_post"},
		{"slice of pointers", []*BlogPost{}, "blog_post"},
		{"acronym run", HTTPRoute{}, "http_route"},
		{"nil", nil, ""},
		{"anonymous", struct{}{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParamName(tc.value); got != tc.want {
				t.Fatalf("ParamName(%T) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestUnderscore(t *testing.T) {
	cases := map[string]string{
		"Person":      "person",
		"PostComment": "post_comment",
		"HTTPServer":  "http_server",
		"already":     "already",
		"ID":          "id",
	}
	for in, want := range cases {
		if got := Underscore(in); got != want {
			t.Fatalf("Underscore(%q) = %q, want %q", in, got, want)
		}
	}
}

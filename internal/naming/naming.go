// Package naming builds the bracketed input names browsers submit nested
// form data under, and derives parameter names from Go types.
package naming

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Child appends a bracketed segment to a base name: Child("person", "email")
// yields "person[email]". An empty base returns the bare name so top-level
// scopes stay usable.
func Child(base, name string) string {
	if base == "" {
		return name
	}
	return base + "[" + name + "]"
}

// Indexed appends an index segment: Indexed("person", "3") yields
// "person[3]". Empty indexes return the base untouched.
func Indexed(base, index string) string {
	if index == "" {
		return base
	}
	return base + "[" + index + "]"
}

// AttributeCarrier returns the nested attribute-carrier name for an
// association: AttributeCarrier("person", "addresses") yields
// "person[addresses_attributes]".
func AttributeCarrier(base, association string) string {
	return Child(base, association+"_attributes")
}

// StripMultiMarker removes one trailing "[]" marker from a base name, used
// when an auto-index replaces array-style submission.
func StripMultiMarker(base string) string {
	return strings.TrimSuffix(base, "[]")
}

// ParamName derives the singular, snake_case parameter name for a value's
// type: *blog.PostComment yields "post_comment". Named types win over their
// pointer/slice wrappers; anonymous types yield "".
func ParamName(value any) string {
	if value == nil {
		return ""
	}

	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		return ""
	}
	return inflection.Singular(Underscore(name))
}

// Underscore converts CamelCase identifiers to snake_case, keeping acronym
// runs together: "HTTPServer" yields "http_server".
func Underscore(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

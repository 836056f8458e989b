// Package nested routes submitted nested-attribute params to create, update,
// and destroy operations, and cascades them through a host-implemented
// saver. It is the persistence-side counterpart of the builder's field-name
// derivation: tokens minted as new_<n> on the render side are recognised
// here.
package nested

import (
	"strconv"
	"strings"
)

// Attributes is one child's submitted attribute map.
type Attributes map[string]any

// Params is the token-keyed payload submitted under a collection
// association's attribute carrier: persisted ids or new_<n> tokens mapping
// to each child's attributes.
type Params map[string]Attributes

// DestroyKey is the attribute name carrying a removal request, emitted by
// the builder's DestroyCheckBox helper.
const DestroyKey = "_destroy"

const newTokenPrefix = "new_"

// IsNewToken reports whether token identifies a not-yet-persisted child:
// "new_" followed by a decimal counter value.
func IsNewToken(token string) bool {
	rest, ok := strings.CutPrefix(token, newTokenPrefix)
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

// newTokenOrdinal returns the counter value of a new_<n> token, or -1.
func newTokenOrdinal(token string) int {
	rest, ok := strings.CutPrefix(token, newTokenPrefix)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	return n
}

// DestroyRequested reports whether the attributes carry a truthy _destroy
// flag. Checkbox submissions arrive as "0"/"1" strings; booleans and ints
// are accepted for programmatic callers.
func DestroyRequested(attrs Attributes) bool {
	raw, ok := attrs[DestroyKey]
	if !ok {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no":
			return false
		default:
			return true
		}
	default:
		return false
	}
}

// stripDestroy returns a copy of attrs without the _destroy marker.
func stripDestroy(attrs Attributes) Attributes {
	if _, ok := attrs[DestroyKey]; !ok {
		return attrs
	}
	out := make(Attributes, len(attrs))
	for key, value := range attrs {
		if key == DestroyKey {
			continue
		}
		out[key] = value
	}
	return out
}

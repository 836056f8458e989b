// Package openapi builds an association registry from an OpenAPI document:
// component-schema properties annotated with an x-relationships extension
// become registered associations of the owning schema.
package openapi

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/jinzhu/inflection"

	"github.com/goliatone/go-nestedform/internal/naming"
	"github.com/goliatone/go-nestedform/pkg/model"
)

// RelationshipExtensionKey marks a schema property as an association.
const RelationshipExtensionKey = "x-relationships"

// Canonical extension attributes. Key lookup is forgiving about casing and
// separators, so x-relationships accepts foreignKey, foreign_key, etc.
const (
	relationshipTypeAttr         = "type"
	relationshipTargetAttr       = "target"
	relationshipCardAttr         = "cardinality"
	relationshipForeignKeyAttr   = "foreignKey"
	relationshipInverseAttr      = "inverse"
	relationshipAllowDestroyAttr = "allowDestroy"
)

var relationshipKeyLookup = map[string]string{
	"type":         relationshipTypeAttr,
	"kind":         relationshipTypeAttr,
	"target":       relationshipTargetAttr,
	"cardinality":  relationshipCardAttr,
	"foreignkey":   relationshipForeignKeyAttr,
	"foreignid":    relationshipForeignKeyAttr,
	"inverse":      relationshipInverseAttr,
	"allowdestroy": relationshipAllowDestroyAttr,
}

// LoadData parses an OpenAPI document payload and extracts its associations.
func LoadData(ctx context.Context, data []byte) (*model.Registry, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return AssociationsFromDocument(spec)
}

// LoadFile reads an OpenAPI document from disk and extracts its associations.
func LoadFile(ctx context.Context, path string) (*model.Registry, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	return AssociationsFromDocument(spec)
}

// AssociationsFromDocument walks component schemas and registers one
// association per property carrying a relationship extension. The owner name
// is the singular snake_case schema name, matching the parameter names the
// builder derives for records.
func AssociationsFromDocument(spec *openapi3.T) (*model.Registry, error) {
	registry := model.NewRegistry()
	if spec == nil || spec.Components == nil {
		return registry, nil
	}

	for schemaName, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		owner := ownerName(schemaName)
		for propertyName, property := range ref.Value.Properties {
			if property == nil || property.Value == nil {
				continue
			}
			assoc, ok, err := associationFromExtensions(propertyName, property.Value.Extensions)
			if err != nil {
				return nil, fmt.Errorf("openapi: schema %q property %q: %w", schemaName, propertyName, err)
			}
			if !ok {
				continue
			}
			if err := registry.Register(owner, assoc); err != nil {
				return nil, fmt.Errorf("openapi: schema %q: %w", schemaName, err)
			}
		}
	}
	return registry, nil
}

func associationFromExtensions(name string, extensions map[string]any) (model.Association, bool, error) {
	raw, ok := extensions[RelationshipExtensionKey].(map[string]any)
	if !ok || len(raw) == 0 {
		return model.Association{}, false, nil
	}

	normalised := make(map[string]any, len(raw))
	for key, value := range raw {
		canonical, ok := relationshipKeyLookup[normaliseKey(key)]
		if !ok {
			continue
		}
		normalised[canonical] = value
	}

	rawCardinality, _ := normalised[relationshipCardAttr].(string)
	if rawCardinality == "" {
		rawCardinality, _ = normalised[relationshipTypeAttr].(string)
	}
	cardinality, ok := model.NormalizeCardinality(rawCardinality)
	if !ok {
		return model.Association{}, false, fmt.Errorf("unknown relationship cardinality %q", rawCardinality)
	}

	target, _ := normalised[relationshipTargetAttr].(string)
	foreignKey, _ := normalised[relationshipForeignKeyAttr].(string)
	inverse, _ := normalised[relationshipInverseAttr].(string)

	return model.Association{
		Name:         name,
		Target:       targetName(target),
		Cardinality:  cardinality,
		ForeignKey:   strings.TrimSpace(foreignKey),
		Inverse:      strings.TrimSpace(inverse),
		AllowDestroy: boolValue(normalised[relationshipAllowDestroyAttr]),
	}, true, nil
}

// ownerName converts a schema name to the builder's owner vocabulary:
// "PostComments" becomes "post_comment".
func ownerName(schemaName string) string {
	return inflection.Singular(naming.Underscore(strings.TrimSpace(schemaName)))
}

// targetName resolves a target that may be a schema name or a local
// "#/components/schemas/..." reference.
func targetName(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		target = target[idx+1:]
	}
	return ownerName(target)
}

func normaliseKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func boolValue(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}

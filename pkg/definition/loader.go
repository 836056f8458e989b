// Package definition loads association definitions from JSON/YAML files
// into a model.Registry, so hosts can declare their nested-attribute
// surface as data instead of code.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nestedform/pkg/model"
)

type documentFile struct {
	Owners map[string][]associationFile `json:"owners" yaml:"owners"`
}

type associationFile struct {
	Name         string `json:"name" yaml:"name"`
	Target       string `json:"target" yaml:"target"`
	Kind         string `json:"kind" yaml:"kind"`
	Cardinality  string `json:"cardinality" yaml:"cardinality"`
	ForeignKey   string `json:"foreignKey" yaml:"foreignKey"`
	Inverse      string `json:"inverse" yaml:"inverse"`
	AllowDestroy bool   `json:"allowDestroy" yaml:"allowDestroy"`
}

// LoadFS walks the provided filesystem and parses every JSON/YAML definition
// file into a single registry. A nil fsys yields an empty registry.
func LoadFS(fsys fs.FS) (*model.Registry, error) {
	registry := model.NewRegistry()
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		return mergeDocument(registry, data, path)
	})
	if err != nil {
		return nil, err
	}

	return registry, nil
}

// LoadBytes parses one definition document into a registry.
func LoadBytes(data []byte, source string) (*model.Registry, error) {
	registry := model.NewRegistry()
	if err := mergeDocument(registry, data, source); err != nil {
		return nil, err
	}
	return registry, nil
}

func mergeDocument(registry *model.Registry, data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for owner, associations := range doc.Owners {
		owner = strings.TrimSpace(owner)
		if owner == "" {
			return fmt.Errorf("definition: file %s defines an empty owner name", source)
		}
		for _, raw := range associations {
			assoc, err := normaliseAssociation(raw, owner, source)
			if err != nil {
				return err
			}
			if err := registry.Register(owner, assoc); err != nil {
				return fmt.Errorf("definition: file %s: %w", source, err)
			}
		}
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
}

func normaliseAssociation(raw associationFile, owner, source string) (model.Association, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return model.Association{}, fmt.Errorf("definition: file %s: owner %q has an association without a name", source, owner)
	}

	rawCardinality := strings.TrimSpace(raw.Cardinality)
	if rawCardinality == "" {
		rawCardinality = raw.Kind
	}
	cardinality, ok := model.NormalizeCardinality(rawCardinality)
	if !ok {
		return model.Association{}, fmt.Errorf("definition: file %s: association %q on %q has unknown cardinality %q", source, name, owner, rawCardinality)
	}

	return model.Association{
		Name:         name,
		Target:       strings.TrimSpace(raw.Target),
		Cardinality:  cardinality,
		ForeignKey:   strings.TrimSpace(raw.ForeignKey),
		Inverse:      strings.TrimSpace(raw.Inverse),
		AllowDestroy: raw.AllowDestroy,
	}, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

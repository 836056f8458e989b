package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	nestedform "github.com/goliatone/go-nestedform"
	"github.com/goliatone/go-nestedform/pkg/definition"
	"github.com/goliatone/go-nestedform/pkg/fill"
	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/nested"
	"github.com/goliatone/go-nestedform/pkg/openapi"
)

func main() {
	defs := flag.String("defs", "", "association definition file or directory (JSON/YAML)")
	openapiDoc := flag.String("openapi", "", "OpenAPI document with x-relationships extensions")
	data := flag.String("data", "", "JSON record graph to render")
	object := flag.String("object", "record", "scope base name / owner of the associations")
	association := flag.String("association", "", "limit rendering to one association")
	attrs := flag.String("attrs", "", "comma-separated attribute names for interactive mode")
	output := flag.String("output", "", "output file (stdout if empty)")
	interactive := flag.Bool("interactive", false, "collect nested params via prompts and print the routed changeset")
	flag.Parse()

	ctx := context.Background()

	registry, err := loadRegistry(ctx, *defs, *openapiDoc)
	if err != nil {
		log.Fatalf("Failed to load associations: %v", err)
	}

	if *interactive {
		if err := runInteractive(ctx, registry, *object, *association, *attrs, *output); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
		return
	}

	record, err := loadRecord(*data, *object)
	if err != nil {
		log.Fatalf("Failed to load record data: %v", err)
	}

	html, err := renderForm(registry, *object, *association, record)
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if err := writeOutput(*output, []byte(html)); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func loadRegistry(ctx context.Context, defs, openapiDoc string) (*model.Registry, error) {
	switch {
	case defs != "" && openapiDoc != "":
		return nil, fmt.Errorf("use either -defs or -openapi, not both")
	case openapiDoc != "":
		return openapi.LoadFile(ctx, openapiDoc)
	case defs != "":
		info, err := os.Stat(defs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return definition.LoadFS(os.DirFS(defs))
		}
		payload, err := os.ReadFile(defs)
		if err != nil {
			return nil, err
		}
		return definition.LoadBytes(payload, defs)
	default:
		return nil, fmt.Errorf("one of -defs or -openapi is required")
	}
}

// recordFile is the JSON shape of one record in the -data graph.
type recordFile struct {
	ID           string         `json:"id"`
	Attributes   map[string]any `json:"attributes"`
	Associations map[string]any `json:"associations"`
}

func loadRecord(path, object string) (*model.MapRecord, error) {
	if path == "" {
		return nil, fmt.Errorf("-data is required unless -interactive is set")
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root recordFile
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	record, err := buildRecord(root)
	if err != nil {
		return nil, fmt.Errorf("build record graph from %s: %w", path, err)
	}
	record.SetModelName(object)
	return record, nil
}

func buildRecord(raw recordFile) (*model.MapRecord, error) {
	record := model.NewMapRecord(raw.ID, raw.Attributes)

	for name, value := range raw.Associations {
		switch v := value.(type) {
		case map[string]any:
			child, err := childRecord(v)
			if err != nil {
				return nil, fmt.Errorf("association %q: %w", name, err)
			}
			record.SetAssociation(name, child)
		case []any:
			members := make([]model.Record, 0, len(v))
			for i, item := range v {
				entry, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("association %q member %d: expected object, got %T", name, i, item)
				}
				child, err := childRecord(entry)
				if err != nil {
					return nil, fmt.Errorf("association %q member %d: %w", name, i, err)
				}
				members = append(members, child)
			}
			record.SetCollection(name, members)
		default:
			return nil, fmt.Errorf("association %q: expected object or array, got %T", name, value)
		}
	}
	return record, nil
}

func childRecord(raw map[string]any) (*model.MapRecord, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var file recordFile
	if err := json.Unmarshal(encoded, &file); err != nil {
		return nil, err
	}
	return buildRecord(file)
}

func renderForm(registry *model.Registry, object, association string, record *model.MapRecord) (string, error) {
	form := nestedform.Form(object, record, nestedform.WithRegistry(registry))

	associations := registry.Nested(object)
	if association != "" {
		assoc, ok := registry.Lookup(object, association)
		if !ok {
			return "", fmt.Errorf("association %q not registered for %q", association, object)
		}
		associations = []model.Association{assoc}
	}
	if len(associations) == 0 {
		return "", fmt.Errorf("no associations registered for %q", object)
	}

	var out strings.Builder
	for _, assoc := range associations {
		allowDestroy := assoc.AllowDestroy
		fragment, err := form.FieldsFor(assoc.Name, func(b nestedform.Builder) (string, error) {
			return childFieldset(b, allowDestroy), nil
		})
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// childFieldset emits one text field per attribute of the bound child
// record, plus the destroy control when the association allows removal.
func childFieldset(b nestedform.Builder, allowDestroy bool) string {
	var inner strings.Builder

	if reader, ok := b.Scope().Record().(*model.MapRecord); ok && reader != nil {
		for _, attribute := range reader.AttributeNames() {
			inner.WriteString(b.Label(attribute, attribute))
			inner.WriteString(b.TextField(attribute))
		}
	}
	if allowDestroy {
		inner.WriteString(b.DestroyCheckBox())
	}
	return b.Fieldset("", inner.String())
}

func runInteractive(ctx context.Context, registry *model.Registry, object, association, attrs, output string) error {
	if association == "" {
		return fmt.Errorf("-association is required in interactive mode")
	}
	assoc, ok := registry.Lookup(object, association)
	if !ok {
		return fmt.Errorf("association %q not registered for %q", association, object)
	}

	attributes := splitAttrs(attrs)
	if len(attributes) == 0 {
		return fmt.Errorf("-attrs is required in interactive mode")
	}

	filler, err := fill.New(fill.NewSurveyDriver())
	if err != nil {
		return err
	}

	parent := model.NewMapRecord("", nil)
	parent.SetModelName(object)

	var changeset nested.Changeset
	if assoc.Collection() {
		params, err := filler.CollectCollection(ctx, assoc, attributes)
		if err != nil {
			return err
		}
		changeset, err = nested.Assign(parent, assoc, params)
		if err != nil {
			return err
		}
	} else {
		collected, err := filler.CollectOne(ctx, assoc, attributes)
		if err != nil {
			return err
		}
		changeset, err = nested.AssignOne(parent, assoc, collected)
		if err != nil {
			return err
		}
	}

	encoded, err := json.MarshalIndent(changeset, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(output, append(encoded, '\n'))
}

func splitAttrs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeOutput(path string, payload []byte) error {
	if path == "" {
		fmt.Print(string(payload))
		return nil
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return err
	}
	fmt.Printf("Output written to %s\n", path)
	return nil
}

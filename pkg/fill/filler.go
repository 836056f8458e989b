package fill

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-nestedform/pkg/model"
	"github.com/goliatone/go-nestedform/pkg/nested"
)

// Filler walks associations and prompts for child attributes. The new-token
// counter lives for the filler's lifetime, so params collected for several
// associations in one session never reuse a token.
type Filler struct {
	driver  PromptDriver
	counter int
}

// New constructs a Filler on top of a prompt driver.
func New(driver PromptDriver) (*Filler, error) {
	if driver == nil {
		return nil, fmt.Errorf("fill: prompt driver is required")
	}
	return &Filler{driver: driver}, nil
}

// CollectCollection prompts for zero or more children of a collection
// association. Each child gets a fresh new_<n> token; attribute names come
// from the attributes list, prompted in order. When the association allows
// destruction an extra confirm marks the child with _destroy.
func (f *Filler) CollectCollection(ctx context.Context, assoc model.Association, attributes []string) (nested.Params, error) {
	if !assoc.Collection() {
		return nil, fmt.Errorf("fill: association %q is singular, use CollectOne", assoc.Name)
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("fill: association %q has no attributes to prompt for", assoc.Name)
	}

	noun := assoc.Target
	if noun == "" {
		noun = assoc.Name
	}

	params := nested.Params{}
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add a %s?", noun),
			Default: len(params) == 0,
		})
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		attrs, err := f.promptAttributes(ctx, assoc, attributes)
		if err != nil {
			return nil, err
		}

		f.counter++
		params[fmt.Sprintf("new_%d", f.counter)] = attrs
	}
	return params, nil
}

// CollectOne prompts for the attributes of a singular association.
func (f *Filler) CollectOne(ctx context.Context, assoc model.Association, attributes []string) (nested.Attributes, error) {
	if assoc.Collection() {
		return nil, fmt.Errorf("fill: association %q is a collection, use CollectCollection", assoc.Name)
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("fill: association %q has no attributes to prompt for", assoc.Name)
	}
	return f.promptAttributes(ctx, assoc, attributes)
}

func (f *Filler) promptAttributes(ctx context.Context, assoc model.Association, attributes []string) (nested.Attributes, error) {
	attrs := nested.Attributes{}
	for _, attribute := range attributes {
		attribute = strings.TrimSpace(attribute)
		if attribute == "" {
			continue
		}
		value, err := f.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s.%s", assoc.Name, attribute),
		})
		if err != nil {
			return nil, err
		}
		attrs[attribute] = value
	}

	if assoc.AllowDestroy {
		destroy, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Mark this %s for removal?", assoc.Name),
		})
		if err != nil {
			return nil, err
		}
		if destroy {
			attrs[nested.DestroyKey] = "1"
		}
	}
	return attrs, nil
}

package nested

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-nestedform/pkg/model"
)

// Update pairs a persisted child id with its submitted attributes.
type Update struct {
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
}

// Changeset is the routed outcome of one association's submitted params.
// Slices preserve the deterministic processing order Assign documents.
type Changeset struct {
	Association string       `json:"association"`
	Creates     []Attributes `json:"creates,omitempty"`
	Updates     []Update     `json:"updates,omitempty"`
	Destroys    []string     `json:"destroys,omitempty"`
}

// Empty reports whether the changeset carries no operations.
func (c Changeset) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Destroys) == 0
}

// Assign routes a collection association's token-keyed params against the
// parent's current members:
//
//   - a token matching a current member's persisted id becomes an update, or
//     a destroy when _destroy is truthy and the association allows it;
//   - a new_<n> token becomes a create (in counter order);
//   - a token matching no current member becomes a create;
//   - _destroy on an association that disallows it is stripped and the child
//     routed normally; _destroy on a new token drops the child entirely.
//
// Processing order is deterministic: current members in collection order,
// then unmatched persisted tokens sorted, then new tokens by counter value.
// Assign never mutates the parent; applying the changeset is the host
// persistence layer's job (see Cascade).
func Assign(parent model.Accessor, assoc model.Association, params Params) (Changeset, error) {
	if !assoc.Collection() {
		return Changeset{}, fmt.Errorf("nested: association %q is singular, use AssignOne", assoc.Name)
	}

	cs := Changeset{Association: assoc.Name}
	if len(params) == 0 {
		return cs, nil
	}

	value, _ := parent.Association(assoc.Name)
	memberIDs, err := collectionIDs(value, assoc.Name)
	if err != nil {
		return Changeset{}, err
	}

	seen := make(map[string]struct{}, len(params))

	route := func(token string, persisted bool) {
		attrs, ok := params[token]
		if !ok {
			return
		}
		seen[token] = struct{}{}

		if DestroyRequested(attrs) {
			if persisted && assoc.AllowDestroy {
				cs.Destroys = append(cs.Destroys, token)
				return
			}
			if !persisted {
				// A removal request for a child that never existed.
				return
			}
			// Destroy not allowed: strip the marker and fall through.
		}
		attrs = stripDestroy(attrs)

		if persisted {
			cs.Updates = append(cs.Updates, Update{ID: token, Attributes: attrs})
			return
		}
		cs.Creates = append(cs.Creates, attrs)
	}

	for _, id := range memberIDs {
		route(id, true)
	}

	var unmatched, fresh []string
	for token := range params {
		if _, ok := seen[token]; ok {
			continue
		}
		if IsNewToken(token) {
			fresh = append(fresh, token)
			continue
		}
		unmatched = append(unmatched, token)
	}
	sort.Strings(unmatched)
	sort.Slice(fresh, func(i, j int) bool {
		return newTokenOrdinal(fresh[i]) < newTokenOrdinal(fresh[j])
	})

	for _, token := range unmatched {
		route(token, false)
	}
	for _, token := range fresh {
		route(token, false)
	}

	return cs, nil
}

// AssignOne routes a singular association's bare attribute map: an update
// when a persisted child exists, a destroy when requested and allowed, a
// create otherwise.
func AssignOne(parent model.Accessor, assoc model.Association, attrs Attributes) (Changeset, error) {
	if assoc.Collection() {
		return Changeset{}, fmt.Errorf("nested: association %q is a collection, use Assign", assoc.Name)
	}

	cs := Changeset{Association: assoc.Name}
	if len(attrs) == 0 {
		return cs, nil
	}

	var existing model.Record
	if value, ok := parent.Association(assoc.Name); ok && value != nil {
		record, ok := value.(model.Record)
		if !ok {
			return Changeset{}, fmt.Errorf("nested: association %q holds %T, expected a single record", assoc.Name, value)
		}
		existing = record
	}

	persisted := existing != nil && !existing.IsNew() && existing.PrimaryKey() != ""

	if DestroyRequested(attrs) {
		if persisted && assoc.AllowDestroy {
			cs.Destroys = append(cs.Destroys, existing.PrimaryKey())
			return cs, nil
		}
		if !persisted {
			return cs, nil
		}
	}
	attrs = stripDestroy(attrs)

	if persisted {
		cs.Updates = append(cs.Updates, Update{ID: existing.PrimaryKey(), Attributes: attrs})
		return cs, nil
	}
	cs.Creates = append(cs.Creates, attrs)
	return cs, nil
}

// collectionIDs returns the persisted ids of the association's current
// members in collection order, skipping new members.
func collectionIDs(value any, association string) ([]string, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("nested: association %q holds %T, expected a collection", association, value)
	}

	ids := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		member, ok := rv.Index(i).Interface().(model.Record)
		if !ok {
			return nil, fmt.Errorf("nested: association %q member %d (%T) does not implement Record", association, i, rv.Index(i).Interface())
		}
		if member.IsNew() || member.PrimaryKey() == "" {
			continue
		}
		ids = append(ids, member.PrimaryKey())
	}
	return ids, nil
}

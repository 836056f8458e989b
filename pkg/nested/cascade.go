package nested

import (
	"context"
	"fmt"

	"github.com/goliatone/go-nestedform/pkg/model"
)

// Saver is implemented by the host persistence layer. The cascade only
// sequences calls; transactional integrity (and any rollback) stays with
// the implementation.
type Saver interface {
	SaveParent(ctx context.Context, parent model.Record) error
	CreateChild(ctx context.Context, parent model.Record, association string, attrs Attributes) error
	UpdateChild(ctx context.Context, parent model.Record, association string, id string, attrs Attributes) error
	DestroyChild(ctx context.Context, parent model.Record, association string, id string) error
}

// Cascade persists the parent and then applies each changeset in order:
// creates, then updates, then destroys per association. The first error
// aborts the cascade and is returned wrapped with the failing operation.
func Cascade(ctx context.Context, saver Saver, parent model.Record, changesets ...Changeset) error {
	if saver == nil {
		return fmt.Errorf("nested: saver is required")
	}
	if parent == nil {
		return fmt.Errorf("nested: parent record is required")
	}

	if err := saver.SaveParent(ctx, parent); err != nil {
		return fmt.Errorf("nested: save parent: %w", err)
	}

	for _, cs := range changesets {
		for i, attrs := range cs.Creates {
			if err := saver.CreateChild(ctx, parent, cs.Association, attrs); err != nil {
				return fmt.Errorf("nested: create %s child %d: %w", cs.Association, i, err)
			}
		}
		for _, update := range cs.Updates {
			if err := saver.UpdateChild(ctx, parent, cs.Association, update.ID, update.Attributes); err != nil {
				return fmt.Errorf("nested: update %s child %s: %w", cs.Association, update.ID, err)
			}
		}
		for _, id := range cs.Destroys {
			if err := saver.DestroyChild(ctx, parent, cs.Association, id); err != nil {
				return fmt.Errorf("nested: destroy %s child %s: %w", cs.Association, id, err)
			}
		}
	}
	return nil
}

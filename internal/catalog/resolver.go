package catalog

import (
	"context"
	"errors"
	"fmt"
)

// CategoryResolver maps a category name to a durable category record,
// creating one on first sight. Resolve is idempotent: N concurrent calls
// with the same name end up with exactly one stored category.
type CategoryResolver struct{}

// Resolve returns the category with the given name, creating it if absent.
// A concurrent creator may win the insert; the unique constraint on the
// name turns that into ErrDuplicate, and the loser re-reads the winning
// row instead of surfacing the violation.
func (CategoryResolver) Resolve(ctx context.Context, categories CategoryStore, name string) (Category, error) {
	c, err := categories.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Category{}, fmt.Errorf("find category %q: %w", name, err)
	}

	c = Category{Name: name}
	id, err := categories.Save(ctx, &c)
	if err == nil {
		c.ID = id
		return c, nil
	}
	if errors.Is(err, ErrDuplicate) {
		// Lost the creation race; the winner's row is visible now.
		c, err = categories.FindByName(ctx, name)
		if err != nil {
			return Category{}, fmt.Errorf("re-read category %q after race: %w", name, err)
		}
		return c, nil
	}
	return Category{}, fmt.Errorf("create category %q: %w", name, err)
}

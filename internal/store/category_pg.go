package store

import (
	"context"
	"errors"

	"bookcatalog/internal/catalog"

	"github.com/jackc/pgx/v5"
)

type CategoryPG struct {
	db DB
}

func NewCategoryPG(db DB) *CategoryPG {
	return &CategoryPG{db: db}
}

func (r *CategoryPG) FindByName(ctx context.Context, name string) (catalog.Category, error) {
	var c catalog.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return c, err
}

// Save inserts the category. ON CONFLICT DO NOTHING keeps a lost creation
// race from aborting the surrounding transaction; the caller re-reads the
// winning row on catalog.ErrDuplicate.
func (r *CategoryPG) Save(ctx context.Context, c *catalog.Category) (int64, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		c.Name,
	).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, catalog.ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

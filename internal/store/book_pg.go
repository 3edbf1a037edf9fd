package store

import (
	"context"
	"errors"

	"bookcatalog/internal/catalog"

	"github.com/jackc/pgx/v5"
)

type BookPG struct {
	db DB
}

func NewBookPG(db DB) *BookPG {
	return &BookPG{db: db}
}

const bookSelect = `
	SELECT b.id, b.title, b.author, c.id, c.name
	FROM books b
	JOIN categories c ON c.id = b.category_id
`

func scanBook(row pgx.Row) (catalog.Book, error) {
	var b catalog.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Category.ID, &b.Category.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Book{}, catalog.ErrNotFound
	}
	return b, err
}

func (r *BookPG) FindByID(ctx context.Context, id int64) (catalog.Book, error) {
	return scanBook(r.db.QueryRow(ctx, bookSelect+"WHERE b.id = $1", id))
}

func (r *BookPG) FindByNaturalKey(ctx context.Context, title, author string) (catalog.Book, error) {
	return scanBook(r.db.QueryRow(ctx, bookSelect+"WHERE b.title = $1 AND b.author = $2", title, author))
}

func (r *BookPG) FindByCategory(ctx context.Context, category string) ([]catalog.Book, error) {
	return r.list(ctx, bookSelect+"WHERE c.name = $1 ORDER BY b.id", category)
}

func (r *BookPG) FindAll(ctx context.Context) ([]catalog.Book, error) {
	return r.list(ctx, bookSelect+"ORDER BY b.id")
}

func (r *BookPG) list(ctx context.Context, query string, args ...any) ([]catalog.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []catalog.Book
	for rows.Next() {
		var b catalog.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category.ID, &b.Category.Name); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPG) Save(ctx context.Context, b *catalog.Book) (int64, error) {
	if b.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO books (title, author, category_id) VALUES ($1, $2, $3) RETURNING id`,
			b.Title, b.Author, b.Category.ID,
		).Scan(&b.ID)
		if uniqueViolation(err) {
			return 0, catalog.ErrDuplicate
		}
		return b.ID, err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, category_id = $3 WHERE id = $4`,
		b.Title, b.Author, b.Category.ID, b.ID,
	)
	if uniqueViolation(err) {
		return 0, catalog.ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, catalog.ErrNotFound
	}
	return b.ID, nil
}

func (r *BookPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *BookPG) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

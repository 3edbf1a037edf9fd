package catalog

import (
	"context"
)

// BookStore defines the contract for book persistence.
type BookStore interface {
	FindByID(ctx context.Context, id int64) (Book, error)
	FindByNaturalKey(ctx context.Context, title, author string) (Book, error)
	FindByCategory(ctx context.Context, category string) ([]Book, error)
	FindAll(ctx context.Context) ([]Book, error)
	// Save inserts when b.ID is zero, otherwise updates in place. Returns
	// the assigned ID. Inserting over a taken natural key returns
	// ErrDuplicate; updating an absent ID returns ErrNotFound.
	Save(ctx context.Context, b *Book) (int64, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CategoryStore defines the contract for category persistence.
type CategoryStore interface {
	FindByName(ctx context.Context, name string) (Category, error)
	// Save inserts a new category and returns its ID. If the name is
	// already taken it returns ErrDuplicate without inserting.
	Save(ctx context.Context, c *Category) (int64, error)
}

// Stores groups the two stores bound to one unit of work.
type Stores struct {
	Books      BookStore
	Categories CategoryStore
}

// TxRunner executes fn as one atomic unit of work. The stores passed to fn
// see a consistent snapshot, and either every write commits or none does.
// Conflicting mutations from other service instances serialize at the
// storage layer, not through in-process locks.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

package store

import (
	"context"

	"bookcatalog/internal/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs catalog units of work as serializable Postgres
// transactions, so the natural-key probe and the writes that follow it
// are indivisible to every other service instance.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, s catalog.Stores) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	s := catalog.Stores{
		Books:      NewBookPG(tx),
		Categories: NewCategoryPG(tx),
	}
	if err := fn(ctx, s); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

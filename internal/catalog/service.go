package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bookcatalog/internal/cache"
)

// Service exposes the public catalog operations. Mutations run as one
// atomic unit of work through the TxRunner, then hand the committed
// Mutation to the Coordinator. Reads go through the cache where the cache
// carries that key, falling back to the store on any cache trouble.
type Service struct {
	tx     TxRunner
	books  BookStore
	engine Engine
	coord  *Coordinator
	cache  cache.Cache
	ttl    time.Duration
	log    *slog.Logger
}

func NewService(tx TxRunner, books BookStore, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		tx:    tx,
		books: books,
		coord: NewCoordinator(c, log),
		cache: c,
		ttl:   ttl,
		log:   log,
	}
}

// Add reconciles the candidate against the catalog and returns Created
// with the new ID, or Found with the ID of the record that absorbed it.
func (s *Service) Add(ctx context.Context, cand Candidate) (Result, error) {
	return s.mutate(ctx, func(ctx context.Context, st Stores) (Result, Mutation, error) {
		return s.engine.Add(ctx, st, cand)
	})
}

// Update overwrites the book at id with the candidate, degrading to Add
// when id is absent and to a collision absorb when another record holds
// the candidate's natural key.
func (s *Service) Update(ctx context.Context, id int64, cand Candidate) (Result, error) {
	return s.mutate(ctx, func(ctx context.Context, st Stores) (Result, Mutation, error) {
		return s.engine.Update(ctx, st, id, cand)
	})
}

// DeleteByID removes the book at id, or returns ErrNotFound.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	var mut Mutation
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		mut, err = s.engine.Delete(ctx, st, id)
		return err
	})
	if err != nil {
		return err
	}
	s.coord.OnMutation(ctx, mut)
	return nil
}

func (s *Service) mutate(ctx context.Context, op func(context.Context, Stores) (Result, Mutation, error)) (Result, error) {
	var (
		res Result
		mut Mutation
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		var err error
		res, mut, err = op(ctx, st)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	// Evictions happen only after the unit of work committed, so no read
	// can refill the cache from pre-commit state afterwards.
	s.coord.OnMutation(ctx, mut)
	return res, nil
}

// FindByID returns the book at id, or ErrNotFound. Not cached.
func (s *Service) FindByID(ctx context.Context, id int64) (Book, error) {
	return s.books.FindByID(ctx, id)
}

// FindAll returns every book in the catalog. Not cached.
func (s *Service) FindAll(ctx context.Context) ([]Book, error) {
	return s.books.FindAll(ctx)
}

// FindByCategory returns the books in the named category, read through the
// cache.
func (s *Service) FindByCategory(ctx context.Context, category string) ([]Book, error) {
	key := categoryKey(category)
	var cached []Book
	if s.cacheRead(ctx, key, &cached) {
		return cached, nil
	}
	books, err := s.books.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.cacheFill(ctx, key, books)
	return books, nil
}

// FindByTitleAndAuthor returns the book holding the natural key, read
// through the cache, or ErrNotFound.
func (s *Service) FindByTitleAndAuthor(ctx context.Context, title, author string) (Book, error) {
	key := naturalKey(title, author)
	var cached Book
	if s.cacheRead(ctx, key, &cached) {
		return cached, nil
	}
	b, err := s.books.FindByNaturalKey(ctx, title, author)
	if err != nil {
		return Book{}, err
	}
	s.cacheFill(ctx, key, b)
	return b, nil
}

// cacheRead reports whether v was populated from the cache. Misses,
// decode failures, and cache errors all fall through to the store;
// only the errors get logged.
func (s *Service) cacheRead(ctx context.Context, key string, v any) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// cacheFill is lazy and idempotent: concurrent fills of the same key write
// equal content, so last write wins harmlessly.
func (s *Service) cacheFill(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		s.log.Warn("cache fill failed", "key", key, "error", err)
	}
}

package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Engine reconciles a candidate book against the stored catalog so that no
// two live records ever share a (title, author) pair. Every mutation path
// probes for an existing holder of the candidate's natural key before
// committing anything.
//
// All methods run inside a caller-supplied unit of work and return, along
// with the outcome, the Mutation the CacheCoordinator must process once
// that unit commits.
type Engine struct {
	resolver CategoryResolver
}

// Add persists the candidate as a new record when its natural key is
// unseen (StatusCreated). When a record already holds the key, that record
// absorbs the candidate's fields in place and keeps its ID (StatusFound):
// the intended new book turns out to already exist, possibly under a
// different category.
func (e Engine) Add(ctx context.Context, s Stores, cand Candidate) (Result, Mutation, error) {
	cat, err := e.resolver.Resolve(ctx, s.Categories, cand.Category)
	if err != nil {
		return Result{}, Mutation{}, err
	}

	existing, err := s.Books.FindByNaturalKey(ctx, cand.Title, cand.Author)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Result{}, Mutation{}, fmt.Errorf("probe natural key: %w", err)
	}

	if errors.Is(err, ErrNotFound) {
		b := Book{Title: cand.Title, Author: cand.Author, Category: cat}
		id, err := s.Books.Save(ctx, &b)
		if err != nil {
			return Result{}, Mutation{}, fmt.Errorf("insert book: %w", err)
		}
		ref := Ref(b)
		return Result{Status: StatusCreated, ID: id}, Mutation{After: &ref}, nil
	}

	before := Ref(existing)
	existing.Title = cand.Title
	existing.Author = cand.Author
	existing.Category = cat
	if _, err := s.Books.Save(ctx, &existing); err != nil {
		return Result{}, Mutation{}, fmt.Errorf("absorb into book %d: %w", existing.ID, err)
	}
	after := Ref(existing)
	return Result{Status: StatusFound, ID: existing.ID},
		Mutation{Before: []BookRef{before}, After: &after}, nil
}

// Update overwrites the record at id with the candidate's fields. An
// absent id degrades to Add. When a different record already holds the
// candidate's natural key, updating in place would leave two live records
// with the same key; instead the holder absorbs the candidate and the
// record named by id is deleted (StatusFound, holder's ID).
func (e Engine) Update(ctx context.Context, s Stores, id int64, cand Candidate) (Result, Mutation, error) {
	target, err := s.Books.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return e.Add(ctx, s, cand)
	}
	if err != nil {
		return Result{}, Mutation{}, fmt.Errorf("find book %d: %w", id, err)
	}

	cat, err := e.resolver.Resolve(ctx, s.Categories, cand.Category)
	if err != nil {
		return Result{}, Mutation{}, err
	}

	other, err := s.Books.FindByNaturalKey(ctx, cand.Title, cand.Author)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Result{}, Mutation{}, fmt.Errorf("probe natural key: %w", err)
	}

	if errors.Is(err, ErrNotFound) || other.ID == target.ID {
		// The key is free, or still owned by the target itself.
		before := Ref(target)
		target.Title = cand.Title
		target.Author = cand.Author
		target.Category = cat
		if _, err := s.Books.Save(ctx, &target); err != nil {
			return Result{}, Mutation{}, fmt.Errorf("update book %d: %w", id, err)
		}
		after := Ref(target)
		return Result{Status: StatusUpdated, ID: id},
			Mutation{Before: []BookRef{before}, After: &after}, nil
	}

	// Collision: other already owns the key. It absorbs the candidate and
	// the target is superseded. Both records' prior states feed eviction.
	beforeTarget := Ref(target)
	beforeOther := Ref(other)
	other.Title = cand.Title
	other.Author = cand.Author
	other.Category = cat
	if _, err := s.Books.Save(ctx, &other); err != nil {
		return Result{}, Mutation{}, fmt.Errorf("absorb into book %d: %w", other.ID, err)
	}
	if err := s.Books.Delete(ctx, target.ID); err != nil {
		return Result{}, Mutation{}, fmt.Errorf("delete superseded book %d: %w", target.ID, err)
	}
	after := Ref(other)
	return Result{Status: StatusFound, ID: other.ID},
		Mutation{Before: []BookRef{beforeTarget, beforeOther}, After: &after}, nil
}

// Delete removes the book at id. ErrNotFound propagates when it is absent.
func (e Engine) Delete(ctx context.Context, s Stores, id int64) (Mutation, error) {
	b, err := s.Books.FindByID(ctx, id)
	if err != nil {
		return Mutation{}, err
	}
	if err := s.Books.Delete(ctx, id); err != nil {
		return Mutation{}, fmt.Errorf("delete book %d: %w", id, err)
	}
	return Mutation{Before: []BookRef{Ref(b)}}, nil
}

package catalog

import (
	"context"
	"log/slog"
	"strconv"

	"bookcatalog/internal/cache"
)

// BookRef is the cache-relevant identity of a book at one point in time:
// its natural key and its category name.
type BookRef struct {
	Title    string
	Author   string
	Category string
}

// Ref captures a book's current cache-relevant state.
func Ref(b Book) BookRef {
	return BookRef{Title: b.Title, Author: b.Author, Category: b.Category.Name}
}

// Mutation describes a committed change for cache eviction purposes.
// Before holds the prior state of every physical record the change touched
// (two for a collision absorb: the deleted target and the absorbing record).
// After is the surviving record's new state, nil for a plain delete.
type Mutation struct {
	Before []BookRef
	After  *BookRef
}

func categoryKey(name string) string {
	return "category:" + name
}

// naturalKey must be injective: quoting each component keeps a delimiter
// character inside a title or author from colliding with the separator,
// so ("A", "B|C") and ("A|B", "C") get distinct keys.
func naturalKey(title, author string) string {
	return "book:" + strconv.Quote(title) + "|" + strconv.Quote(author)
}

// Keys returns the cache keys this mutation invalidates, deduplicated:
// the category entry and natural-key entry of every prior state, plus
// those of the surviving record. Nothing is skipped even when old and new
// states coincide; the next read refills from the store.
func (m Mutation) Keys() []string {
	seen := make(map[string]struct{})
	var keys []string
	add := func(k string) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for _, r := range m.Before {
		add(categoryKey(r.Category))
		add(naturalKey(r.Title, r.Author))
	}
	if m.After != nil {
		add(categoryKey(m.After.Category))
		add(naturalKey(m.After.Title, m.After.Author))
	}
	return keys
}

// Coordinator evicts every cache entry a committed mutation invalidates,
// so the next read repopulates from the store. Eviction is unconditional;
// there is no patch-in-place.
type Coordinator struct {
	cache cache.Cache
	log   *slog.Logger
}

func NewCoordinator(c cache.Cache, log *slog.Logger) *Coordinator {
	return &Coordinator{cache: c, log: log}
}

// OnMutation is invoked after every committed mutation. Cache failures are
// logged and swallowed: the cache is an optimization, not a source of
// truth, and a failed eviction must not fail the operation that already
// committed.
func (c *Coordinator) OnMutation(ctx context.Context, m Mutation) {
	for _, key := range m.Keys() {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Warn("cache eviction failed", "key", key, "error", err)
		}
	}
}

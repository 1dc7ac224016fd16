// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the immutable book table, its derived lookup
// structures, and the SQLite artifact store the engine is loaded from.
package catalog

import (
	"github.com/pdiddy/shelf-engine/pkg/types"
)

// Catalog is the ordered, read-only book table plus a title→position
// index. Both are built together in New and never mutated afterward, so
// a Catalog is safe to share across concurrent callers.
type Catalog struct {
	books  []types.Book
	titles map[string]int
}

// New builds a Catalog from books in order, assigning positions and the
// title index. Titles are assumed unique; on a duplicate the first
// occurrence wins, matching the source data contract.
func New(books []types.Book) *Catalog {
	c := &Catalog{
		books:  make([]types.Book, len(books)),
		titles: make(map[string]int, len(books)),
	}
	for i, b := range books {
		b.Position = i
		c.books[i] = b
		if _, ok := c.titles[b.Title]; !ok {
			c.titles[b.Title] = i
		}
	}
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int { return len(c.books) }

// ByPosition returns the book at the given row index.
func (c *Catalog) ByPosition(pos int) types.Book { return c.books[pos] }

// PositionOf looks up a title in the title index. The second return is
// false when the title is unknown; a miss is an expected condition, not
// an error.
func (c *Catalog) PositionOf(title string) (int, bool) {
	pos, ok := c.titles[title]
	return pos, ok
}

// Books returns the full table in catalog order for scan-based
// retrieval passes. Callers must not mutate the returned slice.
func (c *Catalog) Books() []types.Book { return c.books }

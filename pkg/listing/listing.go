// Package listing filters and sorts the in-memory listings behind the
// equipment, market, scheme, news, community and knowledge endpoints.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

type Predicate[T any] func(T) bool

// Filter keeps items matching every predicate. Nil predicates are skipped,
// so callers can pass optional filters unconditionally. The input slice is
// not modified.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// SortBy stable-sorts items in place.
func SortBy[T any](items []T, less func(a, b T) bool, desc bool) {
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// Query is the common shape of listing query strings.
type Query struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	State    string `query:"state"`
	Sort     string `query:"sort"`
	Order    string `query:"order"`
}

func (q Query) Desc() bool { return strings.EqualFold(q.Order, "desc") }

// Page applies an offset/limit window; limit <= 0 returns everything after offset.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Fold returns the case-folded form used for search comparisons. Scripts
// without case (Devanagari and the other Indic scripts) pass through.
// A Caser keeps state, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// MatchText reports whether query occurs in any of the fields. An empty
// query matches everything.
func MatchText(query string, fields ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}

// Equal is a case-insensitive equality predicate helper; an empty want or
// "all" matches everything.
func Equal(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}

// Text builds a search predicate over the fields returned by fn.
func Text[T any](query string, fn func(T) []string) Predicate[T] {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return func(it T) bool { return MatchText(query, fn(it)...) }
}

// Field builds an equality predicate over the field returned by fn.
func Field[T any](want string, fn func(T) string) Predicate[T] {
	if want = strings.TrimSpace(want); want == "" || strings.EqualFold(want, "all") {
		return nil
	}
	return func(it T) bool { return Equal(want, fn(it)) }
}

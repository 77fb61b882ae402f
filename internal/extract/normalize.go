package extract

import "slices"

// Normalize returns the distinct items sorted by cmp. cmp must be a total
// order in which 0 means every field is equal. The input is not modified, and
// the result depends only on the set of items, not on their order.
func Normalize[T any](items []T, cmp func(a, b T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, cmp)
	return slices.CompactFunc(out, func(a, b T) bool { return cmp(a, b) == 0 })
}

package kvstore

// Reverse returns a reversed copy of list. Descending pages come back
// largest key first; callers presenting them in key order reverse them.
func Reverse[T any](list []T) []T {
	out := make([]T, len(list))
	for i, val := range list {
		out[len(list)-1-i] = val
	}
	return out
}

// Keys returns the keys of entries in order.
func Keys[T any](entries []Entry[T]) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

package aggregate

import "github.com/smokyabdulrahman/imsakiye/internal/prayer"

// Result is the outcome of one city's query: either a value or an error.
type Result[T any] struct {
	City  prayer.City
	Value T
	Err   error
	ok    bool
}

// Ok builds a successful result.
func Ok[T any](c prayer.City, v T) Result[T] {
	return Result[T]{City: c, Value: v, ok: true}
}

// Failed builds a failed result.
func Failed[T any](c prayer.City, err error) Result[T] {
	return Result[T]{City: c, Err: err}
}

// OK reports whether the query succeeded.
func (r Result[T]) OK() bool {
	return r.ok
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.ok
}

// Merge collects the successful results into a map keyed by city name.
// Failures are dropped. The map does not depend on the order of results.
func Merge[T any](results []Result[T]) map[string]T {
	out := make(map[string]T, len(results))
	for _, r := range results {
		if v, ok := r.Get(); ok {
			out[r.City.Name] = v
		}
	}
	return out
}

package engine

// fetched carries a collaborator value or its documented fallback. A
// collaborator failure never fails the request; it degrades to the
// fallback and is logged once by the fetch helper that built it.
type fetched[T any] struct {
	value    T
	degraded bool
	cause    error
}

func ok[T any](v T) fetched[T] {
	return fetched[T]{value: v}
}

func degraded[T any](fallback T, cause error) fetched[T] {
	return fetched[T]{value: fallback, degraded: true, cause: cause}
}

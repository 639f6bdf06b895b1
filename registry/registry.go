// Package registry keeps objects alive for as long as a host needs them,
// typically the lifetime of one indexing or query session.
package registry

// Registry holds strong references to every value created through it.
// Not goroutine-safe.
type Registry[T any] struct {
	items []*T
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Create stores v and returns a pointer to the stored copy. The pointer
// stays valid after Cleanup; only the registry's reference is dropped.
func (r *Registry[T]) Create(v T) *T {
	p := new(T)
	*p = v
	r.items = append(r.items, p)
	return p
}

// Count returns the number of held values.
func (r *Registry[T]) Count() int {
	return len(r.items)
}

// Each calls fn for every held value in creation order.
func (r *Registry[T]) Each(fn func(*T)) {
	for _, p := range r.items {
		fn(p)
	}
}

// Cleanup drops every reference the registry holds.
func (r *Registry[T]) Cleanup() {
	clear(r.items)
	r.items = r.items[:0]
}

package arena

import (
	"sync"
)

// SafeArena is a mutex-protected wrapper around Arena for concurrent access.
// Memory it hands out is not itself synchronized; only the arena bookkeeping is.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena with the specified slab size.
// If slabSize <= 0, DefaultSlabSize is used.
func NewSafeArena(slabSize int) *SafeArena {
	return &SafeArena{a: NewArena(slabSize)}
}

// NewSafe creates a thread-safe arena from cfg.
func NewSafe(cfg Config) (*SafeArena, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &SafeArena{a: a}, nil
}

// AllocBytes thread-safely allocates n bytes. See Arena.AllocBytes.
func (s *SafeArena) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// TryAllocBytes thread-safely allocates n bytes, reporting failures as errors.
func (s *SafeArena) TryAllocBytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.TryAllocBytes(n)
}

// CopyBytes thread-safely copies b into the arena.
func (s *SafeArena) CopyBytes(b []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.CopyBytes(b)
}

// EnsureCapacity thread-safely ensures the current slab has at least n free bytes.
func (s *SafeArena) EnsureCapacity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.EnsureCapacity(n)
}

// Reset thread-safely discards all slabs and starts over with a fresh one.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely drops all slabs and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// SafeAlloc thread-safely returns a pointer to a zeroed T stored inside the arena.
func SafeAlloc[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc[T](s.a)
}

// SafeAllocSlice thread-safely allocates a slice of n elements of type T.
func SafeAllocSlice[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSlice[T](s.a, n)
}

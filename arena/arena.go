package arena

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

// DefaultSlabSize is the default slab capacity for new arenas (1 MiB).
const DefaultSlabSize = 1 << 20

var (
	// ErrAllocation reports that a slab could not be obtained, either because
	// the host refused the allocation or because Config.MaxBytes was reached.
	ErrAllocation = errors.New("arena: slab allocation failed")
	// ErrReleased is returned for any operation after Release.
	ErrReleased = errors.New("arena: use after Release()")
	// ErrInvalidSize is returned for negative allocation sizes.
	ErrInvalidSize = errors.New("arena: invalid allocation size")
	// ErrInvalidConfig is returned by New for an unusable Config.
	ErrInvalidConfig = errors.New("arena: invalid config")
)

// Config holds the construction parameters of an Arena.
type Config struct {
	// SlabSize is the capacity of every regular slab in bytes.
	// Values <= 0 select DefaultSlabSize.
	SlabSize int
	// Align is the alignment applied to AllocBytes results. It must be a
	// power of two; values <= 0 select 1, meaning no padding.
	Align int
	// MaxBytes caps the summed capacity of all slabs. 0 means unlimited.
	MaxBytes int
}

// DefaultConfig returns the configuration used by NewArena(0).
func DefaultConfig() Config {
	return Config{SlabSize: DefaultSlabSize, Align: 1}
}

func (c Config) normalize() (Config, error) {
	if c.SlabSize <= 0 {
		c.SlabSize = DefaultSlabSize
	}
	if c.Align <= 0 {
		c.Align = 1
	}
	if c.Align&(c.Align-1) != 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "alignment %d is not a power of two", c.Align)
	}
	if c.MaxBytes < 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "negative byte limit %d", c.MaxBytes)
	}
	if c.MaxBytes > 0 && c.MaxBytes < c.SlabSize {
		return c, errors.Wrapf(ErrInvalidConfig, "byte limit %d below slab size %d", c.MaxBytes, c.SlabSize)
	}
	return c, nil
}

// slab is a single backing region within an arena.
type slab struct {
	buf    []byte // backing memory
	offset int    // bump cursor within buf
}

func (s *slab) free() int {
	return len(s.buf) - s.offset
}

// Arena is a slab bump allocator. Not goroutine-safe.
// Use SafeArena for concurrent access.
type Arena struct {
	slabs    []slab // creation order; the last one is current
	slabSize int
	align    int
	maxBytes int
	capacity int // sum of len(buf) over slabs
	peak     int // high-water mark of SizeInUse across resets
}

// NewArena creates a new Arena with the given slab size and no alignment.
// If slabSize <= 0, DefaultSlabSize is used. It panics if the first slab
// cannot be allocated.
func NewArena(slabSize int) *Arena {
	a, err := New(Config{SlabSize: slabSize})
	if err != nil {
		panic(err)
	}
	return a
}

// New creates an Arena from cfg and allocates its first slab.
func New(cfg Config) (*Arena, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	a := &Arena{
		slabSize: cfg.SlabSize,
		align:    cfg.Align,
		maxBytes: cfg.MaxBytes,
	}
	if err := a.grow(a.slabSize); err != nil {
		return nil, err
	}
	return a, nil
}

// AllocBytes returns n bytes carved out of the current slab, appending a
// new slab when the current one cannot fit the request. Requests larger
// than the slab size get a dedicated slab of exactly n bytes.
//
// The returned slice stays valid until the next Reset or Release. A zero n
// yields an empty, non-nil slice and leaves the cursor alone; a negative n
// yields nil. AllocBytes panics after Release or if a slab cannot be
// allocated; use TryAllocBytes to get those as errors.
func (a *Arena) AllocBytes(n int) []byte {
	if n < 0 {
		return nil
	}
	b, err := a.alloc(n, a.align)
	if err != nil {
		panic(err)
	}
	return b
}

// TryAllocBytes is AllocBytes with failures reported as errors. When it
// fails the arena keeps every slab it had and remains usable.
func (a *Arena) TryAllocBytes(n int) ([]byte, error) {
	return a.alloc(n, a.align)
}

// CopyBytes copies b into the arena and returns the copy.
func (a *Arena) CopyBytes(b []byte) []byte {
	dst := a.AllocBytes(len(b))
	copy(dst, b)
	return dst
}

// CopyString copies s into the arena and returns a string backed by arena
// memory. The string must not be used after Reset or Release.
func (a *Arena) CopyString(s string) string {
	if s == "" {
		return ""
	}
	dst := a.AllocBytes(len(s))
	copy(dst, s)
	return unsafe.String(unsafe.SliceData(dst), len(dst))
}

func (a *Arena) alloc(n, align int) ([]byte, error) {
	if a.slabs == nil {
		return nil, ErrReleased
	}
	if n < 0 || n > math.MaxInt-align {
		return nil, errors.Wrapf(ErrInvalidSize, "size %d", n)
	}
	s := a.current()
	if n == 0 {
		return s.buf[s.offset:s.offset:s.offset], nil
	}

	off := alignOffset(s.buf, s.offset, align)
	if off > len(s.buf) || n > len(s.buf)-off {
		// Current slab exhausted. Oversize requests get a slab of their own.
		size := a.slabSize
		if need := n + align - 1; need > size {
			size = need
		}
		if err := a.grow(size); err != nil {
			return nil, err
		}
		s = a.current()
		off = alignOffset(s.buf, 0, align)
	}
	s.offset = off + n
	return s.buf[off : off+n : off+n], nil
}

// EnsureCapacity ensures the current slab has at least n free bytes.
// If not, it grows the arena with a new slab.
func (a *Arena) EnsureCapacity(n int) {
	a.panicIfReleased()
	s := a.current()
	if off := alignOffset(s.buf, s.offset, a.align); off <= len(s.buf) && n <= len(s.buf)-off {
		return
	}
	size := a.slabSize
	if n > size {
		size = n
	}
	if err := a.grow(size); err != nil {
		panic(err)
	}
}

// Reset discards every slab and starts over with one fresh slab. All
// memory handed out before the call becomes invalid; the arena cannot
// detect later use of it.
func (a *Arena) Reset() {
	a.panicIfReleased()
	if used := a.SizeInUse(); used > a.peak {
		a.peak = used
	}
	clear(a.slabs)
	a.slabs = a.slabs[:0]
	a.capacity = 0
	if err := a.grow(a.slabSize); err != nil {
		panic(err)
	}
}

// Release drops all slabs and makes the arena unusable.
// Any subsequent allocation will panic.
func (a *Arena) Release() {
	a.slabs = nil
	a.capacity = 0
}

func (a *Arena) current() *slab {
	return &a.slabs[len(a.slabs)-1]
}

// grow appends a new slab of exactly size bytes.
func (a *Arena) grow(size int) error {
	if a.maxBytes > 0 && size > a.maxBytes-a.capacity {
		return errors.Wrapf(ErrAllocation, "slab of %d bytes exceeds limit %d (%d held)", size, a.maxBytes, a.capacity)
	}
	buf, err := makeSlab(size)
	if err != nil {
		return err
	}
	a.slabs = append(a.slabs, slab{buf: buf})
	a.capacity += size
	return nil
}

// makeSlab turns the runtime's makeslice panic into ErrAllocation. True
// out-of-memory conditions are fatal in Go and cannot be recovered.
func makeSlab(size int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, errors.Wrapf(ErrAllocation, "slab of %d bytes: %v", size, r)
		}
	}()
	return make([]byte, size), nil
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.slabs == nil {
		panic(ErrReleased)
	}
}

// alignOffset returns the smallest offset >= off whose address within buf
// is a multiple of align.
func alignOffset(buf []byte, off, align int) int {
	if align <= 1 || cap(buf) == 0 {
		return off
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) + uintptr(off)
	return off + int(alignUp(addr, uintptr(align))-addr)
}

// alignUp rounds v up to a multiple of align, which must be a power of two.
func alignUp(v, align uintptr) uintptr {
	mask := align - 1
	return (v + mask) &^ mask
}

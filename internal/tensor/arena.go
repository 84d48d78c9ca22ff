package tensor

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Allocator produces tensors in one of the supported formats.
// Layers call it once at construction time; the returned tensors live for
// the lifetime of the training loop.
type Allocator interface {
	Allocate(shape Shape, format Format) (*RawTensor, error)
}

// Arena is a capacity-bounded Allocator. It hands out independently owned
// buffers and only tracks the total bytes reserved, mirroring the shared
// activation buffer the training pipeline builds its layers against.
type Arena struct {
	mu       sync.Mutex
	capacity int // bytes; 0 means unbounded
	reserved int
}

// NewArena creates an arena with the given byte capacity.
// A capacity of 0 disables the bound.
func NewArena(capacity int) *Arena {
	return &Arena{capacity: capacity}
}

// Allocate reserves a tensor of the given shape and format.
// The shape's rank must match the format's rank.
func (a *Arena) Allocate(shape Shape, format Format) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "arena")
	}
	if shape.Rank() != format.Rank() {
		return nil, errors.Errorf("arena: format %s requires rank %d, got shape %v", format, format.Rank(), shape)
	}

	byteSize := shape.NumElements() * 4

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capacity > 0 && a.reserved+byteSize > a.capacity {
		return nil, errors.Errorf("arena: out of memory: %d bytes requested, %d of %d reserved",
			byteSize, a.reserved, a.capacity)
	}

	t, err := NewRaw(shape)
	if err != nil {
		return nil, errors.Wrap(err, "arena")
	}
	a.reserved += byteSize

	klog.V(2).Infof("arena: reserved %d bytes for %v (%s), %d total", byteSize, shape, format, a.reserved)
	return t, nil
}

// Reserved returns the total bytes handed out so far.
func (a *Arena) Reserved() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reserved
}

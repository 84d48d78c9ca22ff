// Package tensor provides the core tensor types shared by all backends:
// shapes, formats, raw buffers, the arena allocator and the execution stream.
package tensor

import "fmt"

// RawTensor is the low-level tensor representation: an owned, contiguous,
// row-major float32 buffer plus its shape. Kernels borrow the buffer for the
// duration of one launch and never resize or reallocate it.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
}

// NewRaw creates a new RawTensor with the given shape.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return r.shape.Rank()
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total buffer size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * 4
}

// Data returns the underlying float32 buffer.
// WARNING: direct access to the tensor's memory. Use with caution.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// Fill sets every element to v.
func (r *RawTensor) Fill(v float32) {
	for i := range r.data {
		r.data[i] = v
	}
}

// String returns a short debug description.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor%v", []int(r.shape))
}

// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/trellis-ml/trellis/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Format identifies the memory layout of an allocated tensor.
type Format = tensor.Format

// Supported tensor formats.
const (
	FormatHW  Format = tensor.FormatHW
	FormatHSW Format = tensor.FormatHSW
)

// FormatFor returns the layout matching a rank, or an error when no
// supported layout exists for it.
func FormatFor(rank int) (Format, error) {
	return tensor.FormatFor(rank)
}

// RawTensor is the low-level tensor representation: an owned, contiguous,
// row-major float32 buffer plus its shape.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}

// Allocator produces tensors in one of the supported formats.
type Allocator = tensor.Allocator

// Arena is a capacity-bounded Allocator.
type Arena = tensor.Arena

// NewArena creates an arena with the given byte capacity.
// A capacity of 0 disables the bound.
func NewArena(capacity int) *Arena {
	return tensor.NewArena(capacity)
}

// Stream is the sequencing handle kernels are launched through.
type Stream = tensor.Stream

// NewStream creates an empty stream.
func NewStream() *Stream {
	return tensor.NewStream()
}

// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/trellis-ml/trellis/internal/nn"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// Layer is the contract every pipeline layer implements.
type Layer = nn.Layer

// Kernels is the backend contract the reduction layer dispatches to.
type Kernels = nn.Kernels

// ReduceSum sums a rank-2 or rank-3 input over one axis, collapsing it to
// size 1; its backward pass broadcasts the output gradient back unchanged.
type ReduceSum = nn.ReduceSum

// NewReduceSum validates the configuration, allocates the output tensors and
// binds the layer to a kernel backend and stream.
func NewReduceSum(in, inGrad *tensor.RawTensor, axis int, alloc tensor.Allocator,
	kernels Kernels, stream *tensor.Stream) (*ReduceSum, error) {
	return nn.NewReduceSum(in, inGrad, axis, alloc, kernels, stream)
}

// Range is a half-open column range [Begin, End) of a rank-2 tensor.
type Range = nn.Range

// Slice splits a rank-2 input into one output tensor per column range.
type Slice = nn.Slice

// NewSlice validates the ranges and allocates the per-range output tensors.
func NewSlice(in, inGrad *tensor.RawTensor, ranges []Range, alloc tensor.Allocator,
	stream *tensor.Stream) (*Slice, error) {
	return nn.NewSlice(in, inGrad, ranges, alloc, stream)
}

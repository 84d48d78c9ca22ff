package nn

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// ReduceSum sums a rank-2 or rank-3 input tensor over one axis, producing an
// output with that axis collapsed to size 1. The backward pass broadcasts
// the output gradient back across the collapsed axis unchanged.
//
// The kernels also handle rank-1 input, but construction rejects it: no
// output tensor format exists for a rank-1 result.
//
// Forward reads the input tensor and writes the output tensor. Backward
// reads the output-gradient tensor and writes the caller-owned
// input-gradient tensor; the forward tensors are never reused as gradient
// storage.
type ReduceSum struct {
	axis    int
	in      *tensor.RawTensor
	out     *tensor.RawTensor
	inGrad  *tensor.RawTensor
	outGrad *tensor.RawTensor
	kernels Kernels
	stream  *tensor.Stream
}

// NewReduceSum validates the configuration, allocates the output and
// output-gradient tensors, and binds the layer to a kernel backend and
// stream. Any violation fails before any kernel is scheduled:
//
//   - every input dimension must be positive;
//   - axis must be in [0, rank);
//   - rank must be 2 or 3 (the supported output formats);
//   - inGrad must share the input's shape.
func NewReduceSum(in, inGrad *tensor.RawTensor, axis int, alloc tensor.Allocator,
	kernels Kernels, stream *tensor.Stream) (*ReduceSum, error) {
	shape := in.Shape()
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "reduce_sum")
	}
	if axis < 0 || axis >= shape.Rank() {
		return nil, errors.Errorf("reduce_sum: axis %d out of range for rank %d", axis, shape.Rank())
	}
	outShape := shape.Reduced(axis)
	format, err := tensor.FormatFor(outShape.Rank())
	if err != nil {
		return nil, errors.Wrap(err, "reduce_sum")
	}
	if !inGrad.Shape().Equal(shape) {
		return nil, errors.Errorf("reduce_sum: input gradient shape %v does not match input %v",
			inGrad.Shape(), shape)
	}

	out, err := alloc.Allocate(outShape, format)
	if err != nil {
		return nil, errors.Wrap(err, "reduce_sum: output")
	}
	outGrad, err := alloc.Allocate(outShape, format)
	if err != nil {
		return nil, errors.Wrap(err, "reduce_sum: output gradient")
	}

	klog.V(2).Infof("reduce_sum: %v axis=%d -> %v (%d groups of %d)",
		shape, axis, outShape, outShape.NumElements(), shape[axis])

	return &ReduceSum{
		axis:    axis,
		in:      in,
		out:     out,
		inGrad:  inGrad,
		outGrad: outGrad,
		kernels: kernels,
		stream:  stream,
	}, nil
}

// Fprop launches the forward reduction: out[g] = sum over the axis of in.
func (l *ReduceSum) Fprop(_ bool) {
	l.stream.Launch("reduce_sum_fprop", func() {
		l.kernels.ReduceSum(l.in, l.out, l.axis)
	})
}

// Bprop launches the backward broadcast: inGrad[tid] = outGrad over the
// collapsed axis.
func (l *ReduceSum) Bprop() {
	l.stream.Launch("reduce_sum_bprop", func() {
		l.kernels.ReduceSumGrad(l.outGrad, l.inGrad, l.axis)
	})
}

// Axis returns the reduced axis.
func (l *ReduceSum) Axis() int {
	return l.axis
}

// Output returns the reduced output tensor.
func (l *ReduceSum) Output() *tensor.RawTensor {
	return l.out
}

// OutputGrad returns the output-gradient tensor the training loop writes
// before Bprop.
func (l *ReduceSum) OutputGrad() *tensor.RawTensor {
	return l.outGrad
}

package nn

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// Range is a half-open column range [Begin, End) of a rank-2 tensor.
type Range struct {
	Begin, End int
}

// Slice splits a rank-2 input tensor into one output tensor per column
// range, e.g. (batch, 90) into (batch, 40) and (batch, 4) for ranges [0,40)
// and [50,54). Ranges may overlap; the backward pass scatter-adds each
// range's gradient back, so overlapping columns accumulate.
//
// Data movement only; it exists alongside ReduceSum as the second consumer
// of the layer interface.
type Slice struct {
	in       *tensor.RawTensor
	inGrad   *tensor.RawTensor
	ranges   []Range
	outs     []*tensor.RawTensor
	outGrads []*tensor.RawTensor
	stream   *tensor.Stream
}

// NewSlice validates the ranges against the input's columns and allocates
// one output and output-gradient tensor per range.
func NewSlice(in, inGrad *tensor.RawTensor, ranges []Range, alloc tensor.Allocator,
	stream *tensor.Stream) (*Slice, error) {
	shape := in.Shape()
	if shape.Rank() != 2 {
		return nil, errors.Errorf("slice: rank-2 input required, got %v", shape)
	}
	if !inGrad.Shape().Equal(shape) {
		return nil, errors.Errorf("slice: input gradient shape %v does not match input %v",
			inGrad.Shape(), shape)
	}
	if len(ranges) == 0 {
		return nil, errors.New("slice: no column ranges")
	}

	rows, cols := shape[0], shape[1]
	l := &Slice{in: in, inGrad: inGrad, ranges: ranges, stream: stream}
	for _, r := range ranges {
		if r.Begin < 0 || r.End > cols || r.Begin >= r.End {
			return nil, errors.Errorf("slice: invalid column range [%d, %d) for %d columns",
				r.Begin, r.End, cols)
		}
		outShape := tensor.Shape{rows, r.End - r.Begin}
		out, err := alloc.Allocate(outShape, tensor.FormatHW)
		if err != nil {
			return nil, errors.Wrap(err, "slice: output")
		}
		outGrad, err := alloc.Allocate(outShape, tensor.FormatHW)
		if err != nil {
			return nil, errors.Wrap(err, "slice: output gradient")
		}
		l.outs = append(l.outs, out)
		l.outGrads = append(l.outGrads, outGrad)
	}

	klog.V(2).Infof("slice: %v into %d ranges", shape, len(ranges))
	return l, nil
}

// Fprop gathers each column range into its output tensor.
func (l *Slice) Fprop(_ bool) {
	l.stream.Launch("slice_fprop", func() {
		rows, cols := l.in.Shape()[0], l.in.Shape()[1]
		src := l.in.Data()
		for i, r := range l.ranges {
			dst := l.outs[i].Data()
			width := r.End - r.Begin
			for row := 0; row < rows; row++ {
				copy(dst[row*width:(row+1)*width], src[row*cols+r.Begin:row*cols+r.End])
			}
		}
	})
}

// Bprop scatters each range's gradient back into the input gradient,
// accumulating where ranges overlap.
func (l *Slice) Bprop() {
	l.stream.Launch("slice_bprop", func() {
		rows, cols := l.in.Shape()[0], l.in.Shape()[1]
		dst := l.inGrad.Data()
		for i := range dst {
			dst[i] = 0
		}
		for i, r := range l.ranges {
			src := l.outGrads[i].Data()
			width := r.End - r.Begin
			for row := 0; row < rows; row++ {
				for col := 0; col < width; col++ {
					dst[row*cols+r.Begin+col] += src[row*width+col]
				}
			}
		}
	})
}

// Outputs returns the per-range output tensors.
func (l *Slice) Outputs() []*tensor.RawTensor {
	return l.outs
}

// OutputGrads returns the per-range gradient tensors the training loop
// writes before Bprop.
func (l *Slice) OutputGrads() []*tensor.RawTensor {
	return l.outGrads
}

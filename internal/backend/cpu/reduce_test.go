package cpu

import (
	"testing"

	"github.com/trellis-ml/trellis/internal/parallel"
	"github.com/trellis-ml/trellis/internal/tensor"
)

func newTensor(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape)
	if err != nil {
		t.Fatalf("NewRaw(%v): %v", shape, err)
	}
	if len(values) > 0 {
		copy(r.Data(), values)
	}
	return r
}

// referenceReduce is a sequential stride-walk reduction used as an oracle
// for the kernel's group/lane addressing.
func referenceReduce(in []float32, shape tensor.Shape, axis int) []float32 {
	out := make([]float32, shape.Reduced(axis).NumElements())
	strides := shape.ComputeStrides()
	outStrides := shape.Reduced(axis).ComputeStrides()
	for i, v := range in {
		outIdx := 0
		rem := i
		for d := 0; d < len(shape); d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d != axis {
				outIdx += coord * outStrides[d]
			}
		}
		out[outIdx] += v
	}
	return out
}

func TestReduceSum_2D_Axis0(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{4, 3},
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12)
	out := newTensor(t, tensor.Shape{1, 3})

	backend.ReduceSum(in, out, 0)

	want := []float32{22, 26, 30} // column sums
	for i, w := range want {
		if out.Data()[i] != w {
			t.Errorf("Column %d: expected %v, got %v", i, w, out.Data()[i])
		}
	}
}

func TestReduceSum_2D_Axis1(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{4, 3},
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12)
	out := newTensor(t, tensor.Shape{4, 1})

	backend.ReduceSum(in, out, 1)

	want := []float32{6, 15, 24, 33} // row sums
	for i, w := range want {
		if out.Data()[i] != w {
			t.Errorf("Row %d: expected %v, got %v", i, w, out.Data()[i])
		}
	}
}

func TestReduceSum_1D(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{3}, 5, 7, 9)
	out := newTensor(t, tensor.Shape{1})

	backend.ReduceSum(in, out, 0)
	if out.Data()[0] != 21 {
		t.Errorf("Expected 21, got %v", out.Data()[0])
	}

	outGrad := newTensor(t, tensor.Shape{1}, 2)
	inGrad := newTensor(t, tensor.Shape{3})
	backend.ReduceSumGrad(outGrad, inGrad, 0)
	for i, v := range inGrad.Data() {
		if v != 2 {
			t.Errorf("Gradient %d: expected 2, got %v", i, v)
		}
	}
}

// Every supported (rank, axis) pair against the sequential oracle. Inputs
// are small integers so float32 summation is exact in any order.
func TestReduceSum_AllRankAxisPairs(t *testing.T) {
	backend := New()

	for _, c := range mapperCases {
		in := newTensor(t, c.shape)
		for i := range in.Data() {
			in.Data()[i] = float32(i%13 + 1)
		}
		out := newTensor(t, c.shape.Reduced(c.axis))

		backend.ReduceSum(in, out, c.axis)

		want := referenceReduce(in.Data(), c.shape, c.axis)
		for i, w := range want {
			if out.Data()[i] != w {
				t.Errorf("%v axis %d: output[%d] = %v, want %v", c.shape, c.axis, i, out.Data()[i], w)
			}
		}

		// Total-mass conservation: summing the output reproduces the
		// sum of the input, whatever the reduction order.
		var inSum, outSum float32
		for _, v := range in.Data() {
			inSum += v
		}
		for _, v := range out.Data() {
			outSum += v
		}
		if inSum != outSum {
			t.Errorf("%v axis %d: mass not conserved: in %v, out %v", c.shape, c.axis, inSum, outSum)
		}
	}
}

// A reduced axis longer than the lane count exercises the strided
// accumulation loop.
func TestReduceSum_LongSpan(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{1000, 2})
	for i := range in.Data() {
		in.Data()[i] = 1
	}
	out := newTensor(t, tensor.Shape{1, 2})

	backend.ReduceSum(in, out, 0)
	for i, v := range out.Data() {
		if v != 1000 {
			t.Errorf("Column %d: expected 1000, got %v", i, v)
		}
	}
}

// A reduced axis of size 1 is still one full reduction step.
func TestReduceSum_SpanOne(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{1, 3}, 4, 5, 6)
	out := newTensor(t, tensor.Shape{1, 3})

	backend.ReduceSum(in, out, 0)
	for i, w := range []float32{4, 5, 6} {
		if out.Data()[i] != w {
			t.Errorf("Element %d: expected %v, got %v", i, w, out.Data()[i])
		}
	}
}

func TestReduceSumGrad_Broadcast(t *testing.T) {
	backend := New()

	// Axis 0 of a (4, 3) tensor: each row receives the gradient row.
	outGrad := newTensor(t, tensor.Shape{1, 3}, 1, 2, 3)
	inGrad := newTensor(t, tensor.Shape{4, 3})
	backend.ReduceSumGrad(outGrad, inGrad, 0)
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			if got := inGrad.Data()[row*3+col]; got != float32(col+1) {
				t.Errorf("Grad[%d][%d]: expected %v, got %v", row, col, float32(col+1), got)
			}
		}
	}

	// Axis 1: each row is filled with its scalar gradient.
	outGrad = newTensor(t, tensor.Shape{4, 1}, 1, 2, 3, 4)
	inGrad = newTensor(t, tensor.Shape{4, 3})
	backend.ReduceSumGrad(outGrad, inGrad, 1)
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			if got := inGrad.Data()[row*3+col]; got != float32(row+1) {
				t.Errorf("Grad[%d][%d]: expected %v, got %v", row, col, float32(row+1), got)
			}
		}
	}
}

// Broadcasting a gradient and reducing it back yields span times the
// gradient: each value is replicated span times, then summed.
func TestReduceSum_AdjointProperty(t *testing.T) {
	backend := New()

	for _, c := range mapperCases {
		span := c.shape[c.axis]
		outShape := c.shape.Reduced(c.axis)

		outGrad := newTensor(t, outShape)
		for i := range outGrad.Data() {
			outGrad.Data()[i] = float32(i%5 + 1)
		}
		inGrad := newTensor(t, c.shape)
		backend.ReduceSumGrad(outGrad, inGrad, c.axis)

		roundTrip := newTensor(t, outShape)
		backend.ReduceSum(inGrad, roundTrip, c.axis)

		for i := range outGrad.Data() {
			want := float32(span) * outGrad.Data()[i]
			if roundTrip.Data()[i] != want {
				t.Errorf("%v axis %d: roundTrip[%d] = %v, want %v",
					c.shape, c.axis, i, roundTrip.Data()[i], want)
			}
		}
	}
}

func TestReduceSum_MismatchedOutputPanics(t *testing.T) {
	backend := New()

	in := newTensor(t, tensor.Shape{4, 3})
	out := newTensor(t, tensor.Shape{4, 1}) // wrong: axis 0 needs 3 elements

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched output size")
		}
	}()
	backend.ReduceSum(in, out, 0)
}

// Different pool configs must agree on integer inputs, where summation is
// exact in any order.
func TestReduceSum_PoolIndependence(t *testing.T) {
	par := New()
	seq := NewWithPool(parallel.Sequential())

	in := newTensor(t, tensor.Shape{8, 50, 3})
	for i := range in.Data() {
		in.Data()[i] = float32(i % 9)
	}
	outPar := newTensor(t, tensor.Shape{8, 1, 3})
	outSeq := newTensor(t, tensor.Shape{8, 1, 3})

	par.ReduceSum(in, outPar, 1)
	seq.ReduceSum(in, outSeq, 1)

	for i := range outPar.Data() {
		if outPar.Data()[i] != outSeq.Data()[i] {
			t.Errorf("Element %d: parallel %v != sequential %v", i, outPar.Data()[i], outSeq.Data()[i])
		}
	}
}

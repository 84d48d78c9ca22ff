package cpu

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/parallel"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// groupSize is the fixed number of worker lanes cooperating on one output
// element. It does not scale with the reduced axis: a lane walks the axis
// with stride groupSize when the axis is longer. Power of two, required by
// the tree combine in blockReduceSum.
const groupSize = 64

// ReduceSum computes out[g] = sum over the reduced axis of in, for every
// output element g. One worker group per output element; each lane
// accumulates a strided partial sum over the axis and the group combines the
// partials with a tree reduction.
//
// Addition order depends on groupSize, so results are only reproducible up
// to float32 summation error across different group sizes.
//
// Panics on mismatched buffers; the layer wrapper validates shapes and axis
// before launching.
func (cpu *CPUBackend) ReduceSum(in, out *tensor.RawTensor, axis int) {
	m := newIndexMap(in.Shape(), axis)
	if out.NumElements() != m.groups() {
		panic(fmt.Sprintf("reduce_sum: output has %d elements, want %d for %v axis %d",
			out.NumElements(), m.groups(), in.Shape(), axis))
	}

	src := in.Data()
	dst := out.Data()
	span := m.span()

	parallel.For(m.groups(), func(g int) {
		var partials [groupSize]float32
		for t := 0; t < groupSize; t++ {
			var acc float32
			for k := t; k < span; k += groupSize {
				acc += src[m.inputOffset(g, k)]
			}
			partials[t] = acc
		}
		// Lane 0 writes the combined scalar.
		dst[g] = blockReduceSum(partials[:])
	}, cpu.pool)
}

// ReduceSumGrad broadcasts the incoming gradient back across the reduced
// axis: inGrad[tid] = outGrad[gradOffset(tid)] for every input element. The
// sum's gradient with respect to each summed element is exactly 1, so the
// upstream value is replicated with no attenuation. One worker per element,
// no synchronization.
//
// Panics on mismatched buffers; the layer wrapper validates before launching.
func (cpu *CPUBackend) ReduceSumGrad(outGrad, inGrad *tensor.RawTensor, axis int) {
	m := newIndexMap(inGrad.Shape(), axis)
	if outGrad.NumElements() != m.groups() {
		panic(fmt.Sprintf("reduce_sum_grad: gradient has %d elements, want %d for %v axis %d",
			outGrad.NumElements(), m.groups(), inGrad.Shape(), axis))
	}

	src := outGrad.Data()
	dst := inGrad.Data()

	parallel.For(inGrad.NumElements(), func(tid int) {
		dst[tid] = src[m.gradOffset(tid)]
	}, cpu.pool)
}

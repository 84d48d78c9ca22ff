// Package nn implements the training-pipeline layers built on the reduction
// kernels: axis reduction and the column-slice layer.
//
// Layers are constructed once against borrowed input tensors and an
// allocator, fail fast on invalid configuration, and from then on only
// launch kernels. Kernel failures surface at stream synchronization, not at
// the Fprop/Bprop call site.
package nn

import "github.com/trellis-ml/trellis/internal/tensor"

// Layer is the contract every pipeline layer implements.
type Layer interface {
	// Fprop launches the forward pass on the layer's stream.
	Fprop(isTraining bool)
	// Bprop launches the backward pass on the layer's stream.
	Bprop()
}

// Kernels is the backend contract the reduction layer dispatches to.
// Implementations panic on misuse; the stream converts panics into errors
// reported at the next synchronization point.
type Kernels interface {
	ReduceSum(in, out *tensor.RawTensor, axis int)
	ReduceSumGrad(outGrad, inGrad *tensor.RawTensor, axis int)
}

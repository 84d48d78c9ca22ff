package cpu

// blockReduceSum combines per-worker partial sums into a single value with a
// binary tree, halving the active stride each step the way a workgroup
// reduction does between barriers. len(partials) must be a power of two.
// The slice is clobbered; partials[0] holds the result.
func blockReduceSum(partials []float32) float32 {
	for stride := len(partials) / 2; stride > 0; stride >>= 1 {
		for i := 0; i < stride; i++ {
			partials[i] += partials[i+stride]
		}
	}
	return partials[0]
}

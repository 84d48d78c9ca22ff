package cpu

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// Index arithmetic for axis reductions.
//
// Both mapping directions are derived from the same row-major
// decomposition/recomposition helpers below rather than hand-derived per
// case, so the forward and backward kernels cannot drift apart:
//
//   - forward: decompose the group id over the output dims (reduced axis
//     collapsed to 1), substitute the worker lane for the reduced coordinate,
//     recompose over the input dims;
//   - backward: decompose the flat input offset over the input dims, zero the
//     reduced coordinate, recompose over the output dims.

// split peels the trailing block of size n off a flat row-major offset.
func split(i, n int) (int, int) {
	return i / n, i % n
}

// flat2 recomposes coordinates (a, b) over trailing dimension n1.
func flat2(a, b, n1 int) int {
	return a*n1 + b
}

// flat3 recomposes coordinates (a, b, c) over trailing dimensions (n1, n2).
func flat3(a, b, c, n1, n2 int) int {
	return (a*n1+b)*n2 + c
}

// indexMap is the per-rank index-computation strategy, selected once per
// launch so the per-element arithmetic stays branch-free over runtime-length
// shape collections.
type indexMap interface {
	// groups is the number of output elements (one worker group each).
	groups() int
	// span is the size of the reduced axis.
	span() int
	// inputOffset maps a (group id, worker lane) pair to the flat input
	// offset that lane reads during the forward reduction.
	inputOffset(g, t int) int
	// gradOffset maps a flat input offset to the flat output-gradient
	// offset replicated into it during the backward broadcast.
	gradOffset(tid int) int
}

type index1 struct {
	n0 int
}

func (m index1) groups() int              { return 1 }
func (m index1) span() int                { return m.n0 }
func (m index1) inputOffset(_, t int) int { return t }
func (m index1) gradOffset(int) int       { return 0 }

type index2 struct {
	axis   int
	n0, n1 int
}

func (m index2) groups() int {
	if m.axis == 0 {
		return m.n1
	}
	return m.n0
}

func (m index2) span() int {
	if m.axis == 0 {
		return m.n0
	}
	return m.n1
}

func (m index2) inputOffset(g, t int) int {
	if m.axis == 0 {
		return flat2(t, g, m.n1)
	}
	return flat2(g, t, m.n1)
}

func (m index2) gradOffset(tid int) int {
	d0, d1 := split(tid, m.n1)
	if m.axis == 0 {
		return d1
	}
	return d0
}

type index3 struct {
	axis       int
	n0, n1, n2 int
}

func (m index3) groups() int {
	switch m.axis {
	case 0:
		return m.n1 * m.n2
	case 1:
		return m.n0 * m.n2
	default:
		return m.n0 * m.n1
	}
}

func (m index3) span() int {
	switch m.axis {
	case 0:
		return m.n0
	case 1:
		return m.n1
	default:
		return m.n2
	}
}

func (m index3) inputOffset(g, t int) int {
	switch m.axis {
	case 0:
		d1, d2 := split(g, m.n2)
		return flat3(t, d1, d2, m.n1, m.n2)
	case 1:
		d0, d2 := split(g, m.n2)
		return flat3(d0, t, d2, m.n1, m.n2)
	default:
		d0, d1 := split(g, m.n1)
		return flat3(d0, d1, t, m.n1, m.n2)
	}
}

func (m index3) gradOffset(tid int) int {
	d01, d2 := split(tid, m.n2)
	d0, d1 := split(d01, m.n1)
	switch m.axis {
	case 0:
		return flat2(d1, d2, m.n2)
	case 1:
		return flat2(d0, d2, m.n2)
	default:
		return flat2(d0, d1, m.n1)
	}
}

// newIndexMap selects the strategy for a shape/axis pair.
// Panics on unsupported rank or axis; layers validate before launching.
func newIndexMap(shape tensor.Shape, axis int) indexMap {
	if axis < 0 || axis >= shape.Rank() {
		panic(fmt.Sprintf("reduce: axis %d out of range for rank %d", axis, shape.Rank()))
	}
	switch shape.Rank() {
	case 1:
		return index1{n0: shape[0]}
	case 2:
		return index2{axis: axis, n0: shape[0], n1: shape[1]}
	case 3:
		return index3{axis: axis, n0: shape[0], n1: shape[1], n2: shape[2]}
	default:
		panic(fmt.Sprintf("reduce: unsupported rank %d (max 3)", shape.Rank()))
	}
}

package nn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trellis-ml/trellis/internal/tensor"
)

func TestSlice_FpropGathersRanges(t *testing.T) {
	arena := tensor.NewArena(0)
	stream := tensor.NewStream()

	in, inGrad := newPair(t, tensor.Shape{2, 6})
	copy(in.Data(), []float32{
		0, 1, 2, 3, 4, 5,
		10, 11, 12, 13, 14, 15,
	})

	layer, err := NewSlice(in, inGrad, []Range{{0, 3}, {2, 5}}, arena, stream)
	require.NoError(t, err)
	require.Len(t, layer.Outputs(), 2)
	require.Equal(t, tensor.Shape{2, 3}, layer.Outputs()[0].Shape())

	layer.Fprop(true)
	require.NoError(t, stream.Synchronize())

	require.Equal(t, []float32{0, 1, 2, 10, 11, 12}, layer.Outputs()[0].Data())
	require.Equal(t, []float32{2, 3, 4, 12, 13, 14}, layer.Outputs()[1].Data())
}

func TestSlice_BpropAccumulatesOverlap(t *testing.T) {
	arena := tensor.NewArena(0)
	stream := tensor.NewStream()

	in, inGrad := newPair(t, tensor.Shape{1, 4})
	// Ranges [0,3) and [2,4) overlap on column 2.
	layer, err := NewSlice(in, inGrad, []Range{{0, 3}, {2, 4}}, arena, stream)
	require.NoError(t, err)

	copy(layer.OutputGrads()[0].Data(), []float32{1, 1, 1})
	copy(layer.OutputGrads()[1].Data(), []float32{10, 10})

	layer.Bprop()
	require.NoError(t, stream.Synchronize())

	require.Equal(t, []float32{1, 1, 11, 10}, inGrad.Data())
}

func TestSlice_ConstructionFailures(t *testing.T) {
	arena := tensor.NewArena(0)
	stream := tensor.NewStream()

	in, inGrad := newPair(t, tensor.Shape{2, 6})

	_, err := NewSlice(in, inGrad, nil, arena, stream)
	require.Error(t, err)

	for _, bad := range []Range{{-1, 3}, {0, 7}, {3, 3}, {4, 2}} {
		_, err := NewSlice(in, inGrad, []Range{bad}, arena, stream)
		require.Error(t, err, "range %+v must be rejected", bad)
	}

	in3, inGrad3 := newPair(t, tensor.Shape{2, 3, 4})
	_, err = NewSlice(in3, inGrad3, []Range{{0, 2}}, arena, stream)
	require.Error(t, err)
}

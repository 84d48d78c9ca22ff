package tensor

import "github.com/pkg/errors"

// Format identifies the memory layout of an allocated tensor.
// The training pipeline only materializes rank-2 (height x width) and
// rank-3 (height x slot x width) activations, so these are the only
// layouts the allocator hands out.
type Format int

// Supported tensor formats.
const (
	// FormatHW is a rank-2 row-major layout.
	FormatHW Format = iota
	// FormatHSW is a rank-3 row-major layout.
	FormatHSW
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatHW:
		return "HW"
	case FormatHSW:
		return "HSW"
	default:
		return "Unknown"
	}
}

// Rank returns the tensor rank the format describes.
func (f Format) Rank() int {
	switch f {
	case FormatHW:
		return 2
	case FormatHSW:
		return 3
	default:
		return 0
	}
}

// FormatFor returns the layout matching a rank, or an error when no
// supported layout exists for it.
func FormatFor(rank int) (Format, error) {
	switch rank {
	case 2:
		return FormatHW, nil
	case 3:
		return FormatHSW, nil
	default:
		return 0, errors.Errorf("no tensor format for rank %d (supported: 2, 3)", rank)
	}
}

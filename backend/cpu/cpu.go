// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for the reduction kernels.
package cpu

import (
	internalcpu "github.com/trellis-ml/trellis/internal/backend/cpu"
	"github.com/trellis-ml/trellis/nn"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements the layer kernel contract.
var _ nn.Kernels = (*Backend)(nil)

// New creates a new CPU backend with the default worker pool.
func New() *Backend {
	return internalcpu.New()
}

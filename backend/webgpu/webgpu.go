//go:build windows

// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU execution of the
// reduction kernels.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	layer, err := nn.NewReduceSum(in, inGrad, 0, arena, webgpu.NewKernels(gpu), stream)
package webgpu

import (
	internalwebgpu "github.com/trellis-ml/trellis/internal/backend/webgpu"
	"github.com/trellis-ml/trellis/nn"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Kernels adapts a Backend to the layer kernel contract.
type Kernels = internalwebgpu.Kernels

// Compile-time check that Kernels implements the layer kernel contract.
var _ nn.Kernels = Kernels{}

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources. Returns an error if WebGPU initialization fails.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// NewKernels wraps a backend for use by the layer wrappers.
func NewKernels(b *Backend) Kernels {
	return internalwebgpu.NewKernels(b)
}

// IsAvailable checks if WebGPU is available on the current system, for
// graceful fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

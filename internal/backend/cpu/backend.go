// Package cpu implements the CPU reduction kernels in pure Go.
package cpu

import (
	"github.com/trellis-ml/trellis/internal/parallel"
)

// CPUBackend runs the reduction kernels on the host, spreading worker groups
// across goroutines.
type CPUBackend struct {
	pool parallel.Config
}

// New creates a CPU backend with the default worker pool.
func New() *CPUBackend {
	return &CPUBackend{pool: parallel.DefaultConfig()}
}

// NewWithPool creates a CPU backend with an explicit worker pool config.
func NewWithPool(pool parallel.Config) *CPUBackend {
	return &CPUBackend{pool: pool}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

package tensor

import (
	"sync"

	"github.com/pkg/errors"
)

// Stream is the sequencing handle kernels are launched through. All kernels
// launched on one stream execute in submission order relative to each other;
// kernels on different streams have no ordering guarantee and must not alias
// the same buffers without external synchronization.
//
// Kernel failures are not reported at the launch site. A failed kernel
// poisons the stream: later launches are skipped and the failure surfaces at
// the next Synchronize call.
type Stream struct {
	mu  sync.Mutex
	err error
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// Launch runs op on the stream. A panic inside op is captured as the
// stream's pending error.
func (s *Stream) Launch(name string, op func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.err = errors.Errorf("%s: %v", name, r)
		}
	}()
	op()
}

// Synchronize waits for all launched work and reports the first failure
// since the previous Synchronize, clearing it.
func (s *Stream) Synchronize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.err
	s.err = nil
	return err
}

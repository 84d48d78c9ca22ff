// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the Trellis tensor core:
// shapes, formats, raw float32 buffers, the arena allocator and the
// execution stream layers launch their kernels on.
//
// Example:
//
//	arena := tensor.NewArena(64 << 20)
//	in, _ := arena.Allocate(tensor.Shape{4, 3}, tensor.FormatHW)
//	stream := tensor.NewStream()
package tensor

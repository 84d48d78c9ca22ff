// Copyright 2026 Trellis ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for the Trellis pipeline layers:
// the axis-reduction layer and the column-slice layer.
//
// Example:
//
//	arena := tensor.NewArena(0)
//	stream := tensor.NewStream()
//	in, _ := tensor.NewRaw(tensor.Shape{4, 3})
//	inGrad, _ := tensor.NewRaw(tensor.Shape{4, 3})
//
//	layer, err := nn.NewReduceSum(in, inGrad, 0, arena, cpu.New(), stream)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layer.Fprop(true)
//	if err := stream.Synchronize(); err != nil {
//	    log.Fatal(err)
//	}
package nn

//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// tensorBytes views a tensor's float32 buffer as bytes for GPU upload.
func tensorBytes(t *tensor.RawTensor) []byte {
	data := t.Data()
	//nolint:gosec // unsafe.Slice for zero-copy upload, bounds checked by ByteSize()
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), t.ByteSize())
}

// packParams encodes the kernel uniform block: rank, axis, the fixed-arity
// dimension sizes (padded with 1 below the tensor's rank), the reduced span
// and the total input element count. Padded to a 16-byte boundary.
func packParams(shape tensor.Shape, axis int) []byte {
	dims := [3]int{1, 1, 1}
	copy(dims[:], shape)

	params := make([]byte, 32)
	binary.LittleEndian.PutUint32(params[0:4], uint32(shape.Rank()))
	binary.LittleEndian.PutUint32(params[4:8], uint32(axis))
	binary.LittleEndian.PutUint32(params[8:12], uint32(dims[0]))
	binary.LittleEndian.PutUint32(params[12:16], uint32(dims[1]))
	binary.LittleEndian.PutUint32(params[16:20], uint32(dims[2]))
	binary.LittleEndian.PutUint32(params[20:24], uint32(shape[axis]))
	binary.LittleEndian.PutUint32(params[24:28], uint32(shape.NumElements()))
	return params
}

// ReduceSum executes the forward reduction on GPU: out[g] = sum over the
// reduced axis of in, one workgroup per output element.
func (b *Backend) ReduceSum(in, out *tensor.RawTensor, axis int) error {
	shape := in.Shape()
	if shape.Rank() > 3 {
		return fmt.Errorf("webgpu: reduce_sum supports rank 1-3, got %v", shape)
	}
	if axis < 0 || axis >= shape.Rank() {
		return fmt.Errorf("webgpu: reduce_sum axis %d out of range for rank %d", axis, shape.Rank())
	}
	groups := out.NumElements()
	if groups != shape.Reduced(axis).NumElements() {
		return fmt.Errorf("webgpu: reduce_sum output has %d elements, want %d for %v axis %d",
			groups, shape.Reduced(axis).NumElements(), shape, axis)
	}

	shader := b.compileShader("reduce_sum", reduceSumShader)
	pipeline := b.getOrCreatePipeline("reduce_sum", shader)

	bufferIn := b.createBuffer(tensorBytes(in), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferIn.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(out.ByteSize())
	bufferOut := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferOut.Release()

	bufferParams := b.createUniformBuffer(packParams(shape, axis))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferIn, 0, uint64(in.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferOut, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 32),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// One workgroup per output element.
	//nolint:gosec // G115: Safe conversion, group count is non-negative
	computePass.DispatchWorkgroups(uint32(groups), 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferOut, resultSize)
	if err != nil {
		return err
	}
	copy(tensorBytes(out), resultData)
	return nil
}

// ReduceSumGrad executes the backward broadcast on GPU: one invocation per
// input element copying its output-gradient source.
func (b *Backend) ReduceSumGrad(outGrad, inGrad *tensor.RawTensor, axis int) error {
	shape := inGrad.Shape()
	if shape.Rank() > 3 {
		return fmt.Errorf("webgpu: reduce_sum_grad supports rank 1-3, got %v", shape)
	}
	if axis < 0 || axis >= shape.Rank() {
		return fmt.Errorf("webgpu: reduce_sum_grad axis %d out of range for rank %d", axis, shape.Rank())
	}
	if outGrad.NumElements() != shape.Reduced(axis).NumElements() {
		return fmt.Errorf("webgpu: reduce_sum_grad gradient has %d elements, want %d for %v axis %d",
			outGrad.NumElements(), shape.Reduced(axis).NumElements(), shape, axis)
	}

	shader := b.compileShader("reduce_sum_grad", reduceSumGradShader)
	pipeline := b.getOrCreatePipeline("reduce_sum_grad", shader)

	bufferGrad := b.createBuffer(tensorBytes(outGrad), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferGrad.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(inGrad.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(packParams(shape, axis))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferGrad, 0, uint64(outGrad.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 32),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	total := inGrad.NumElements()
	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((total + gradWorkgroupSize - 1) / gradWorkgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return err
	}
	copy(tensorBytes(inGrad), resultData)
	return nil
}

// Kernels adapts the backend to the layer contract, which reports kernel
// failures at stream synchronization rather than per launch.
type Kernels struct {
	b *Backend
}

// NewKernels wraps a backend for use by the layer wrappers.
func NewKernels(b *Backend) Kernels {
	return Kernels{b: b}
}

// ReduceSum implements the layer kernel contract.
func (k Kernels) ReduceSum(in, out *tensor.RawTensor, axis int) {
	if err := k.b.ReduceSum(in, out, axis); err != nil {
		panic(err)
	}
}

// ReduceSumGrad implements the layer kernel contract.
func (k Kernels) ReduceSumGrad(outGrad, inGrad *tensor.RawTensor, axis int) {
	if err := k.b.ReduceSumGrad(outGrad, inGrad, axis); err != nil {
		panic(err)
	}
}

//go:build windows

package webgpu

// Embedded WGSL compute shaders for the reduction kernels. The offset
// functions mirror the index arithmetic in the CPU backend: forward
// decomposes the group id over the output dims and substitutes the lane for
// the reduced coordinate; backward decomposes the flat input offset and
// drops the reduced coordinate.

// reduceGroupSize is the number of lanes per workgroup in the forward
// reduction. Power of two, required by the tree combine.
const reduceGroupSize = 64

// gradWorkgroupSize is the workgroup width of the element-wise backward pass.
const gradWorkgroupSize = 256

// reduceSumShader sums the input over one axis, one workgroup per output
// element. Each lane accumulates a strided partial over the reduced axis;
// the workgroup then tree-combines the partials between barriers and lane 0
// writes the scalar.
const reduceSumShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> output: array<f32>;

struct Params {
    rank: u32,
    axis: u32,
    d0: u32,
    d1: u32,
    d2: u32,
    span: u32,
    total: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> partials: array<f32, 64>;

fn input_offset(g: u32, t: u32) -> u32 {
    if (params.rank == 1u) {
        return t;
    }
    if (params.rank == 2u) {
        if (params.axis == 0u) {
            return t * params.d1 + g;
        }
        return g * params.d1 + t;
    }
    if (params.axis == 0u) {
        return t * params.d1 * params.d2 + g;
    }
    if (params.axis == 1u) {
        return (g / params.d2) * params.d1 * params.d2 + t * params.d2 + (g % params.d2);
    }
    return g * params.d2 + t;
}

@compute @workgroup_size(64)
fn main(@builtin(workgroup_id) group_id: vec3<u32>,
        @builtin(local_invocation_id) local_id: vec3<u32>) {
    let g = group_id.x;
    let t = local_id.x;

    var acc = 0.0;
    var k = t;
    while (k < params.span) {
        acc = acc + input[input_offset(g, k)];
        k = k + 64u;
    }
    partials[t] = acc;
    workgroupBarrier();

    var stride = 32u;
    while (stride > 0u) {
        if (t < stride) {
            partials[t] = partials[t] + partials[t + stride];
        }
        workgroupBarrier();
        stride = stride / 2u;
    }

    if (t == 0u) {
        output[g] = partials[0];
    }
}
`

// reduceSumGradShader broadcasts the output gradient back across the
// reduced axis, one invocation per input element. Pure copy with a computed
// source offset; no synchronization.
const reduceSumGradShader = `
@group(0) @binding(0) var<storage, read> output_grad: array<f32>;
@group(0) @binding(1) var<storage, read_write> input_grad: array<f32>;

struct Params {
    rank: u32,
    axis: u32,
    d0: u32,
    d1: u32,
    d2: u32,
    span: u32,
    total: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

fn grad_offset(tid: u32) -> u32 {
    if (params.rank == 1u) {
        return 0u;
    }
    if (params.rank == 2u) {
        if (params.axis == 0u) {
            return tid % params.d1;
        }
        return tid / params.d1;
    }
    let d2 = tid % params.d2;
    let d01 = tid / params.d2;
    let d1 = d01 % params.d1;
    let d0 = d01 / params.d1;
    if (params.axis == 0u) {
        return d1 * params.d2 + d2;
    }
    if (params.axis == 1u) {
        return d0 * params.d2 + d2;
    }
    return d0 * params.d1 + d1;
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let tid = global_id.x;
    if (tid < params.total) {
        input_grad[tid] = output_grad[grad_offset(tid)];
    }
}
`

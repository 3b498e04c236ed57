// Package blend evaluates WebGPU fixed-function blend state on the CPU.
//
// Colors are float RGBA in [0, 1]. Whether they are premultiplied is up to
// the blend state: BlendStateAlpha expects straight source colors and
// BlendStatePremultiplied premultiplied ones, exactly as on the GPU.
//
// References:
//   - WebGPU blend state: https://www.w3.org/TR/webgpu/#blend-state
//   - Porter-Duff: "Compositing Digital Images" (1984)
package blend

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Apply blends src over dst according to state and returns the color to
// store. constant is the blend constant used by the Constant factors.
// Results are clamped to [0, 1], matching a unorm color target.
func Apply(state gputypes.BlendState, src, dst, constant f32.Vec4) f32.Vec4 {
	var out f32.Vec4
	for i := range 3 {
		s := factor(state.Color.SrcFactor, i, src, dst, constant)
		d := factor(state.Color.DstFactor, i, src, dst, constant)
		out[i] = operate(state.Color.Operation, src[i], s, dst[i], d)
	}
	s := factor(state.Alpha.SrcFactor, 3, src, dst, constant)
	d := factor(state.Alpha.DstFactor, 3, src, dst, constant)
	out[3] = operate(state.Alpha.Operation, src[3], s, dst[3], d)
	for i := range out {
		out[i] = clamp01(out[i])
	}
	return out
}

// Replace is the state of a pipeline without blending: the source is
// written as is.
func Replace() gputypes.BlendState {
	one := gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorOne,
		DstFactor: gputypes.BlendFactorZero,
		Operation: gputypes.BlendOperationAdd,
	}
	return gputypes.BlendState{Color: one, Alpha: one}
}

// factor evaluates a blend factor for channel ch (3 is alpha).
func factor(f gputypes.BlendFactor, ch int, src, dst, constant f32.Vec4) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrc:
		return src[ch]
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - src[ch]
	case gputypes.BlendFactorSrcAlpha:
		return src[3]
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - src[3]
	case gputypes.BlendFactorDst:
		return dst[ch]
	case gputypes.BlendFactorOneMinusDst:
		return 1 - dst[ch]
	case gputypes.BlendFactorDstAlpha:
		return dst[3]
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - dst[3]
	case gputypes.BlendFactorSrcAlphaSaturated:
		if ch == 3 {
			return 1
		}
		return math32.Min(src[3], 1-dst[3])
	case gputypes.BlendFactorConstant:
		return constant[ch]
	case gputypes.BlendFactorOneMinusConstant:
		return 1 - constant[ch]
	default:
		return 0
	}
}

// operate combines the weighted source and destination. Min and Max ignore
// the factors, as WebGPU specifies.
func operate(op gputypes.BlendOperation, s, sf, d, df float32) float32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return s*sf - d*df
	case gputypes.BlendOperationReverseSubtract:
		return d*df - s*sf
	case gputypes.BlendOperationMin:
		return math32.Min(s, d)
	case gputypes.BlendOperationMax:
		return math32.Max(s, d)
	default:
		return s*sf + d*df
	}
}

func clamp01(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return math32.Max(0, math32.Min(v, 1))
}

package blend

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Mode names a compositing operator expressible as fixed-function blend
// state.
type Mode uint8

const (
	// Straight-alpha source over, for glyph colors that are not
	// premultiplied. This is the glyph pipeline default.
	ModeAlpha Mode = iota

	// Porter-Duff modes on premultiplied colors
	ModeClear           // Result: 0
	ModeSource          // Result: S
	ModeDestination     // Result: D
	ModeSourceOver      // Result: S + D*(1-Sa)
	ModeDestinationOver // Result: S*(1-Da) + D
	ModeSourceIn        // Result: S*Da
	ModeDestinationIn   // Result: D*Sa
	ModeSourceOut       // Result: S*(1-Da)
	ModeDestinationOut  // Result: D*(1-Sa)
	ModeSourceAtop      // Result: S*Da + D*(1-Sa)
	ModeDestinationAtop // Result: S*(1-Da) + D*Sa
	ModeXor             // Result: S*(1-Da) + D*(1-Sa)
	ModePlus            // Result: S + D (clamped)
	ModeModulate        // Result: S*D
)

var modeNames = [...]string{
	ModeAlpha:           "alpha",
	ModeClear:           "clear",
	ModeSource:          "source",
	ModeDestination:     "destination",
	ModeSourceOver:      "source-over",
	ModeDestinationOver: "destination-over",
	ModeSourceIn:        "source-in",
	ModeDestinationIn:   "destination-in",
	ModeSourceOut:       "source-out",
	ModeDestinationOut:  "destination-out",
	ModeSourceAtop:      "source-atop",
	ModeDestinationAtop: "destination-atop",
	ModeXor:             "xor",
	ModePlus:            "plus",
	ModeModulate:        "modulate",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("blend: unknown mode %q", name)
}

// State returns the blend state implementing m. Unknown modes map to
// ModeAlpha.
func (m Mode) State() gputypes.BlendState {
	const (
		zero        = gputypes.BlendFactorZero
		one         = gputypes.BlendFactorOne
		srcAlpha    = gputypes.BlendFactorSrcAlpha
		invSrcAlpha = gputypes.BlendFactorOneMinusSrcAlpha
		dstAlpha    = gputypes.BlendFactorDstAlpha
		invDstAlpha = gputypes.BlendFactorOneMinusDstAlpha
	)
	switch m {
	case ModeClear:
		return same(zero, zero)
	case ModeSource:
		return same(one, zero)
	case ModeDestination:
		return same(zero, one)
	case ModeSourceOver:
		return same(one, invSrcAlpha)
	case ModeDestinationOver:
		return same(invDstAlpha, one)
	case ModeSourceIn:
		return same(dstAlpha, zero)
	case ModeDestinationIn:
		return same(zero, srcAlpha)
	case ModeSourceOut:
		return same(invDstAlpha, zero)
	case ModeDestinationOut:
		return same(zero, invSrcAlpha)
	case ModeSourceAtop:
		return same(dstAlpha, invSrcAlpha)
	case ModeDestinationAtop:
		return same(invDstAlpha, srcAlpha)
	case ModeXor:
		return same(invDstAlpha, invSrcAlpha)
	case ModePlus:
		return same(one, one)
	case ModeModulate:
		c := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorDst,
			DstFactor: zero,
			Operation: gputypes.BlendOperationAdd,
		}
		return gputypes.BlendState{Color: c, Alpha: c}
	default:
		return gputypes.BlendStateAlpha()
	}
}

// same builds a state using one additive component for color and alpha.
func same(src, dst gputypes.BlendFactor) gputypes.BlendState {
	c := gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd}
	return gputypes.BlendState{Color: c, Alpha: c}
}

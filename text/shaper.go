package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	gtlanguage "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/glyphbrush/internal/cache"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Options control one Shape call.
type Options struct {
	// Size is the font size in pixels per em.
	Size fixed.Int26_6

	// Language selects language-specific shaping. Default: English.
	Language language.Tag

	// Vertical shapes top-to-bottom. Otherwise the direction follows the
	// first strongly directional rune.
	Vertical bool
}

// RunCacheSize is the number of shaped runs a Shaper remembers.
const RunCacheSize = 256

// Shaper shapes text in one font with HarfBuzz.
//
// Shaper is safe for concurrent use. The parsed font.Font is shared; each
// Shape call gets its own font.Face, and HarfbuzzShaper instances are
// pooled since they are not safe for concurrent use either.
type Shaper struct {
	font *font.Font
	pool sync.Pool
	runs *cache.Cache[runKey, shaping.Output]
}

type runKey struct {
	text string
	opts Options
}

// NewShaper parses an OpenType or TrueType font.
func NewShaper(data []byte) (*Shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &Shaper{
		font: face.Font,
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		runs: cache.New[runKey, shaping.Output](RunCacheSize),
	}, nil
}

// Shape converts s into a run of positioned glyphs. Recently shaped runs
// come from a cache, so the returned Glyphs slice must not be modified.
func (sh *Shaper) Shape(s string, opts Options) shaping.Output {
	key := runKey{text: s, opts: opts}
	if out, ok := sh.runs.Get(key); ok {
		return out
	}
	out := sh.shape(s, opts)
	sh.runs.Put(key, out)
	return out
}

func (sh *Shaper) shape(s string, opts Options) shaping.Output {
	runes := []rune(s)
	dir := detectDirection(runes, opts.Vertical)
	if len(runes) == 0 {
		return shaping.Output{Size: opts.Size, Direction: dir}
	}

	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(sh.font),
		Size:      opts.Size,
		Script:    detectScript(runes),
		Language:  gtlanguage.NewLanguage(tag.String()),
	}

	hb := sh.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	sh.pool.Put(hb)
	return out
}

// detectDirection returns the direction of the first strongly directional
// rune, LTR when there is none.
func detectDirection(runes []rune, vertical bool) di.Direction {
	if vertical {
		return di.DirectionTTB
	}
	for _, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Mixed-script
// text should be split into runs before shaping.
func detectScript(runes []rune) gtlanguage.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return gtlanguage.LookupScript(r)
	}
	return gtlanguage.Latin
}

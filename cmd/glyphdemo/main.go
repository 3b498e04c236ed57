// Command glyphdemo renders text through a glyph batch on the CPU and
// writes the result as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/glyphbrush/atlas"
	"github.com/gogpu/glyphbrush/internal/blend"
	"github.com/gogpu/glyphbrush/internal/raster"
	"github.com/gogpu/glyphbrush/text"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

func main() {
	var (
		message   = flag.String("text", "Hello, glyphbrush!", "text to draw")
		size      = flag.Int("size", 32, "font size in pixels")
		width     = flag.Int("width", 640, "image width")
		height    = flag.Int("height", 200, "image height")
		output    = flag.String("output", "glyphs.png", "output file")
		atlasOut  = flag.String("atlas", "", "also write the glyph atlas to this file")
		lang      = flag.String("lang", "en", "BCP 47 language tag")
		blendMode = flag.String("blend", "alpha", "blend mode (alpha, source-over, plus, ...)")
		vertical  = flag.Bool("vertical", false, "lay text out top to bottom")
		srgb      = flag.Bool("srgb", false, "render to an sRGB target")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		glyphbrush.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("Bad language: %v", err)
	}
	mode, err := blend.ParseMode(*blendMode)
	if err != nil {
		log.Fatalf("Bad blend mode: %v", err)
	}

	shaper, err := text.NewShaper(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	ras, err := atlas.NewRasterizer(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	cache := atlas.NewCache(ras, atlas.New(atlas.DefaultSize))

	px := float32(*size)
	out := shaper.Shape(*message, text.Options{
		Size:     fixed.I(*size),
		Language: tag,
		Vertical: *vertical,
	})

	origin := f32.Vec2{px / 2, px * 1.5}
	if *vertical {
		origin = f32.Vec2{px, px}
	}
	shadow := f32.Vec2{origin[0] + px/10, origin[1] + px/10}

	// Two overlapping runs in one batch: the later one paints over the
	// earlier one where they meet.
	brush := glyphbrush.NewBrush(glyphbrush.DefaultConfig())
	brush.QueueRun(text.LayoutRun(out, shadow, cache, f32.Vec4{0.9, 0.2, 0.2, 0.5}, 0))
	brush.QueueRun(text.LayoutRun(out, origin, cache, f32.Vec4{0.2, 0.4, 1, 0.5}, 0))
	brush.QueueRun(text.LayoutRun(out, f32.Vec2{origin[0], origin[1] + 2*px}, cache, f32.Vec4{1, 1, 1, 1}, 0))

	sub, err := brush.Draw(glyphbrush.Bindings{
		Transform: glyphbrush.PixelToNDC(float32(*width), float32(*height)),
		Atlas:     cache.Atlas().Image(),
	})
	if err != nil {
		log.Fatalf("Failed to build batch: %v", err)
	}

	state := mode.State()
	renderer := raster.NewRenderer(raster.Config{
		Width:  *width,
		Height: *height,
		Blend:  &state,
		SRGB:   *srgb,
	})
	renderer.Clear(f32.Vec4{0.08, 0.08, 0.12, 1})
	if err := renderer.Render(sub); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := savePNG(*output, renderer.Image()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	if *atlasOut != "" {
		if err := savePNG(*atlasOut, cache.Atlas().Image()); err != nil {
			log.Fatalf("Failed to save atlas: %v", err)
		}
	}

	log.Printf("Rendered %d glyphs in %d sections to %s (%dx%d)\n",
		sub.InstanceCount(), sub.Sections, *output, *width, *height)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/glyphbrush/atlas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// AtlasTexture is a single-channel glyph atlas resident on the GPU.
type AtlasTexture struct {
	device     hal.Device
	texture    hal.Texture
	view       hal.TextureView
	size       image.Point
	generation uint64
}

// UploadAtlas creates an R8Unorm texture holding the coverage mask img and
// returns it with its view. The view is what glyphbrush.Bindings.Atlas
// expects for batches drawn by this package.
func UploadAtlas(device hal.Device, queue hal.Queue, img *image.Alpha) (*AtlasTexture, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if img == nil || img.Rect.Empty() {
		return nil, ErrEmptyAtlas
	}
	w := uint32(img.Rect.Dx()) //nolint:gosec // image bounds are non-negative
	h := uint32(img.Rect.Dy()) //nolint:gosec // image bounds are non-negative

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "glyph_atlas",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "glyph_atlas_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create atlas texture view: %w", err)
	}
	a := &AtlasTexture{device: device, texture: tex, view: view, size: img.Rect.Size()}

	if err := a.write(queue, img, image.Point{}); err != nil {
		a.Destroy()
		return nil, err
	}
	return a, nil
}

// UploadGlyphAtlas uploads the current contents of src and remembers its
// generation for Sync. It clears src's dirty region.
func UploadGlyphAtlas(device hal.Device, queue hal.Queue, src *atlas.Atlas) (*AtlasTexture, error) {
	_, gen := src.TakeDirty()
	a, err := UploadAtlas(device, queue, src.Image())
	if err != nil {
		return nil, err
	}
	a.generation = gen
	return a, nil
}

// Update copies img into the texture in place. img's bounds give the
// destination texels, so a sub-image or an atlas dirty region lands where
// it came from.
func (a *AtlasTexture) Update(queue hal.Queue, img *image.Alpha) error {
	if queue == nil {
		return ErrNilDevice
	}
	if img == nil || img.Rect.Empty() {
		return ErrEmptyAtlas
	}
	if !img.Rect.In(image.Rectangle{Max: a.size}) {
		return fmt.Errorf("%w: %v in %v texture", ErrAtlasBounds, img.Rect, a.size)
	}
	return a.write(queue, img, img.Rect.Min)
}

// Sync uploads the region of src changed since the texture last saw it.
// It does nothing while src's generation is unchanged.
func (a *AtlasTexture) Sync(queue hal.Queue, src *atlas.Atlas) error {
	if src.Generation() == a.generation {
		return nil
	}
	dirty, gen := src.TakeDirty()
	if dirty != nil {
		if err := a.Update(queue, dirty); err != nil {
			return err
		}
		slogger().Debug("glyph atlas synced", "region", dirty.Rect, "generation", gen)
	}
	a.generation = gen
	return nil
}

func (a *AtlasTexture) write(queue hal.Queue, img *image.Alpha, at image.Point) error {
	w := uint32(img.Rect.Dx()) //nolint:gosec // image bounds are non-negative
	h := uint32(img.Rect.Dy()) //nolint:gosec // image bounds are non-negative
	if err := queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  a.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(at.X), Y: uint32(at.Y)}, //nolint:gosec // checked against the texture bounds
		},
		tightPixels(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	); err != nil {
		return fmt.Errorf("upload atlas: %w", err)
	}
	return nil
}

// tightPixels returns the mask rows without stride padding.
func tightPixels(img *image.Alpha) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w {
		return img.Pix[:w*h]
	}
	out := make([]byte, 0, w*h)
	for y := range h {
		off := y * img.Stride
		out = append(out, img.Pix[off:off+w]...)
	}
	return out
}

// View returns the texture view to bind as the batch atlas.
func (a *AtlasTexture) View() hal.TextureView { return a.view }

// Size returns the atlas size in texels.
func (a *AtlasTexture) Size() image.Point { return a.size }

// Destroy releases the texture and its view. Safe to call multiple times.
func (a *AtlasTexture) Destroy() {
	if a.view != nil {
		a.device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.texture != nil {
		a.device.DestroyTexture(a.texture)
		a.texture = nil
	}
}

//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNilDevice is returned when a pipeline is created without a device
	// or queue.
	ErrNilDevice = errors.New("gpu: nil device or queue")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoHALProvider = errors.New("gpu: provider does not expose HAL types")

	// ErrAtlasBinding is returned when a submission's atlas binding is not a
	// hal.TextureView.
	ErrAtlasBinding = errors.New("gpu: atlas binding is not a texture view")

	// ErrPipelineDestroyed is returned by Prepare after Destroy.
	ErrPipelineDestroyed = errors.New("gpu: pipeline destroyed")

	// ErrEmptyAtlas is returned when an atlas image has no pixels.
	ErrEmptyAtlas = errors.New("gpu: empty atlas image")

	// ErrAtlasBounds is returned when an atlas update does not fit the
	// texture.
	ErrAtlasBounds = errors.New("gpu: atlas update out of bounds")
)

package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/raytrace"
)

// ErrNotBuilt is returned when a frame is rendered before the first
// Rebuild established the output image.
var ErrNotBuilt = errors.New("gpu: frame resources not built")

// FrameResources owns the GPU-resident color image and every binding
// that references it: the kernel's storage binding and the
// presentation pass's sampled binding. Exactly one output image exists
// at a time; Rebuild replaces it wholesale rather than mutating it.
type FrameResources struct {
	device *wgpu.Device

	// sampler is fixed for the lifetime of the resources; only the
	// image it samples changes.
	sampler *wgpu.Sampler

	texture *wgpu.Texture
	view    *wgpu.TextureView

	computeBindGroup *wgpu.BindGroup
	blitBindGroup    *wgpu.BindGroup

	width  uint32
	height uint32
}

// newFrameResources creates the size-independent pieces. Rebuild must
// be called once before the first frame.
func newFrameResources(device *wgpu.Device) (*FrameResources, error) {
	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "raytrace-blit-sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to create sampler: %w", err)
	}
	return &FrameResources{device: device, sampler: sampler}, nil
}

// Size returns the current output image dimensions.
func (f *FrameResources) Size() (uint32, uint32) {
	return f.width, f.height
}

// Rebuild replaces the output image with a new one at the given size
// and recreates both bind groups against it. After Rebuild returns no
// binding references the destroyed image; an already-submitted frame
// may still complete against the orphaned resources without error.
func (f *FrameResources) Rebuild(computeLayout, blitLayout *wgpu.BindGroupLayout, width, height uint32) error {
	f.releaseSized()

	texture, err := f.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "raytrace-color-image",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create color image: %w", err)
	}
	f.texture = texture

	view, err := texture.CreateView(nil)
	if err != nil {
		f.releaseSized()
		return fmt.Errorf("gpu: failed to create color image view: %w", err)
	}
	f.view = view

	computeBindGroup, err := f.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "raytrace-compute-bind-group",
		Layout: computeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
		},
	})
	if err != nil {
		f.releaseSized()
		return fmt.Errorf("gpu: failed to create compute bind group: %w", err)
	}
	f.computeBindGroup = computeBindGroup

	blitBindGroup, err := f.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "raytrace-blit-bind-group",
		Layout: blitLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: f.sampler},
		},
	})
	if err != nil {
		f.releaseSized()
		return fmt.Errorf("gpu: failed to create blit bind group: %w", err)
	}
	f.blitBindGroup = blitBindGroup

	f.width = width
	f.height = height

	raytrace.Logger().Debug("gpu: frame resources rebuilt",
		"width", width, "height", height)
	return nil
}

// releaseSized drops the image and every binding referencing it. The
// sampler survives; it does not depend on the image.
func (f *FrameResources) releaseSized() {
	if f.blitBindGroup != nil {
		f.blitBindGroup.Release()
		f.blitBindGroup = nil
	}
	if f.computeBindGroup != nil {
		f.computeBindGroup.Release()
		f.computeBindGroup = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
	f.width = 0
	f.height = 0
}

// Release drops all resources. The FrameResources must not be used
// afterwards.
func (f *FrameResources) Release() {
	f.releaseSized()
	if f.sampler != nil {
		f.sampler.Release()
		f.sampler = nil
	}
}

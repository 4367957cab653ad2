// Package gpu drives the two-stage WebGPU pipeline: the ray-tracing
// compute kernel writing into a storage texture, and the presentation
// pass sampling that texture onto the window surface.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/raytrace"
)

// Context bundles the GPU resources shared by every frame: instance,
// surface, adapter, device and queue. A missing adapter or device is
// fatal and surfaced to the caller; nothing here is retried.
type Context struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// maxTextureDim2D bounds the output image size. Surface sizes get
	// clamped to [1, maxTextureDim2D] before any resource is built.
	maxTextureDim2D uint32
}

// NewContext acquires an adapter compatible with the given surface and
// creates a device and queue on it.
func NewContext(surfaceDesc *wgpu.SurfaceDescriptor) (*Context, error) {
	c := &Context{instance: wgpu.CreateInstance(nil)}
	c.surface = c.instance.CreateSurface(surfaceDesc)

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("gpu: no compatible adapter: %w", err)
	}
	c.adapter = adapter

	limits := wgpu.DefaultLimits()
	c.maxTextureDim2D = limits.MaxTextureDimension2D

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "raytrace-device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("gpu: device creation failed: %w", err)
	}
	c.device = device
	c.queue = device.GetQueue()

	raytrace.Logger().Info("gpu: device ready",
		"maxTextureDimension2D", c.maxTextureDim2D)

	return c, nil
}

// MaxTextureDimension2D returns the device's largest supported 2D
// image edge.
func (c *Context) MaxTextureDimension2D() uint32 {
	return c.maxTextureDim2D
}

// Release drops the context's GPU resources in reverse order of
// creation. The context must not be used afterwards.
func (c *Context) Release() {
	if c.device != nil {
		c.device.Release()
		c.device = nil
		c.queue = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

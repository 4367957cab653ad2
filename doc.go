// Package raytrace renders a fixed sphere scene in real time through a
// two-stage WebGPU pipeline: a per-pixel compute kernel writes shaded
// colors into a storage texture and a presentation pass samples that
// texture onto the window surface.
//
// The root package holds the scene math (rays, sphere intersection,
// shading) and a CPU renderer that mirrors the GPU kernel exactly; the
// GPU pipeline lives in internal/gpu and the demo binary in
// cmd/raytrace.
package raytrace

package gpu

import "github.com/gogpu/raytrace"

// clampExtent corrects a requested surface size to [1, max] on both
// axes. Out-of-range sizes are silently clamped, never reported.
func clampExtent(width, height int, max uint32) (uint32, uint32) {
	return clampDim(width, max), clampDim(height, max)
}

func clampDim(v int, max uint32) uint32 {
	if v < 1 {
		return 1
	}
	if uint32(v) > max {
		return max
	}
	return uint32(v)
}

// dispatchExtent returns the workgroup grid covering a width x height
// image with raytrace.TileSize square tiles. Edge tiles may overhang;
// the kernel guards against out-of-bounds stores itself.
func dispatchExtent(width, height uint32) (uint32, uint32) {
	const tile = raytrace.TileSize
	return (width + tile - 1) / tile, (height + tile - 1) / tile
}

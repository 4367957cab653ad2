package raytrace

import "github.com/go-gl/mathgl/mgl32"

// Fixed render configuration.
const (
	// BaseWidth is the initial render width in pixels.
	BaseWidth = 400

	// BaseHeight derives from BaseWidth at a 16:9 aspect ratio,
	// floored.
	BaseHeight = BaseWidth * 9 / 16

	// TileSize is the square workgroup edge of the compute kernel.
	// Dispatches cover ceil(width/TileSize) x ceil(height/TileSize)
	// groups so every pixel is addressed at least once.
	TileSize = 8

	// TMax is the upper bound of the intersection interval. Large
	// enough to be practically unbounded for this scene.
	TMax = 1e4
)

// Scene returns the fixed sphere list: a single sphere of radius 0.5
// centered one unit in front of the camera.
func Scene() []Sphere {
	return []Sphere{
		{Center: mgl32.Vec3{0, 0, -1}, Radius: 0.5},
	}
}

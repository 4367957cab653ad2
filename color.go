package raytrace

import "github.com/go-gl/mathgl/mgl32"

var (
	white   = mgl32.Vec3{1, 1, 1}
	skyBlue = mgl32.Vec3{0.5, 0.7, 1}
)

// RayColor maps a ray to a color. A sphere hit shades by surface
// normal, remapped from [-1,1] to [0,1] per channel; a miss falls
// through to the vertical white-to-sky-blue gradient.
//
// The ray direction is only normalized inside the gradient branch.
// Moving that normalization earlier would subtly change the blend
// factor for off-axis rays, so the order is load-bearing.
//
// RayColor is reentrant and side-effect free; it runs once per pixel
// with no shared state.
func RayColor(r Ray, spheres []Sphere) mgl32.Vec3 {
	for _, s := range spheres {
		rec := s.Hit(r, 0, TMax)
		if !rec.Hit {
			continue
		}
		n := r.At(rec.T).Sub(s.Center).Normalize()
		return n.Add(white).Mul(0.5)
	}

	unit := r.Dir.Normalize()
	a := 0.5 * (unit.Y() + 1)
	return white.Mul(1 - a).Add(skyBlue.Mul(a))
}

package raytrace

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is an origin plus direction pair used to sample the scene.
// The direction is not required to be normalized at construction;
// shading normalizes it where the math demands a unit vector.
type Ray struct {
	Orig mgl32.Vec3
	Dir  mgl32.Vec3
}

// At returns the point along the ray at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Orig.Add(r.Dir.Mul(t))
}

// Sphere is an immutable scene primitive. The radius is expected to be
// positive; it enters the quadratic squared and scales the normal.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// HitRecord is the result of testing a ray against geometry. When Hit
// is false the remaining fields are zero and must not be consulted.
type HitRecord struct {
	T         float32
	P         mgl32.Vec3
	Normal    mgl32.Vec3
	FrontFace bool
	Hit       bool
}

// Hit solves the ray-sphere quadratic in the half-b formulation and
// returns the nearest root inside the open interval (tMin, tMax).
//
// A zero-length ray direction makes a == 0 and the division undefined;
// callers must supply a non-degenerate direction.
func (s Sphere) Hit(r Ray, tMin, tMax float32) HitRecord {
	oc := s.Center.Sub(r.Orig)
	a := r.Dir.Dot(r.Dir)
	h := r.Dir.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return HitRecord{}
	}
	sqrtd := float32(math.Sqrt(float64(discriminant)))

	root := (h - sqrtd) / a
	if root <= tMin || root >= tMax {
		root = (h + sqrtd) / a
		if root <= tMin || root >= tMax {
			return HitRecord{}
		}
	}

	p := r.At(root)
	outward := p.Sub(s.Center).Mul(1 / s.Radius)
	front, normal := faceNormal(r, outward)
	return HitRecord{T: root, P: p, Normal: normal, FrontFace: front, Hit: true}
}

// faceNormal orients the geometric outward normal against the incoming
// ray. The returned normal always satisfies dot(dir, normal) <= 0.
func faceNormal(r Ray, outward mgl32.Vec3) (frontFace bool, normal mgl32.Vec3) {
	frontFace = r.Dir.Dot(outward) < 0
	if frontFace {
		return true, outward
	}
	return false, outward.Mul(-1)
}

package raytrace

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approxVec3(a, b mgl32.Vec3, eps float32) bool {
	return mgl32.FloatEqualThreshold(a.X(), b.X(), eps) &&
		mgl32.FloatEqualThreshold(a.Y(), b.Y(), eps) &&
		mgl32.FloatEqualThreshold(a.Z(), b.Z(), eps)
}

func TestRay_At(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		t      float32
		expect mgl32.Vec3
	}{
		{"zero t", Ray{Orig: mgl32.Vec3{1, 2, 3}, Dir: mgl32.Vec3{1, 0, 0}}, 0, mgl32.Vec3{1, 2, 3}},
		{"unit step", Ray{Dir: mgl32.Vec3{0, 0, -1}}, 1, mgl32.Vec3{0, 0, -1}},
		{"negative t", Ray{Dir: mgl32.Vec3{0, 1, 0}}, -2, mgl32.Vec3{0, -2, 0}},
		{"unnormalized dir", Ray{Orig: mgl32.Vec3{1, 0, 0}, Dir: mgl32.Vec3{2, 0, 0}}, 0.5, mgl32.Vec3{2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ray.At(tt.t)
			if !approxVec3(got, tt.expect, 1e-6) {
				t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.expect)
			}
		})
	}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := Scene()[0]

	tests := []struct {
		name string
		ray  Ray
	}{
		{"parallel above", Ray{Orig: mgl32.Vec3{0, 1, 0}, Dir: mgl32.Vec3{0, 0, -1}}},
		{"pointing away", Ray{Dir: mgl32.Vec3{0, 0, 1}}},
		{"wide off axis", Ray{Dir: mgl32.Vec3{1, 1, -1}}},
		{"grazing outside", Ray{Dir: mgl32.Vec3{0.6, 0, -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sphere.Hit(tt.ray, 0, TMax)
			if rec.Hit {
				t.Errorf("Hit(%v) = %+v, want miss", tt.ray, rec)
			}
		})
	}

	t.Run("pointing away still misses with both roots behind", func(t *testing.T) {
		// Discriminant is positive here, both roots negative.
		rec := sphere.Hit(Ray{Dir: mgl32.Vec3{0, 0, 1}}, 0, TMax)
		if rec.Hit {
			t.Errorf("expected miss, got %+v", rec)
		}
	})
}

func TestSphere_Hit_HeadOn(t *testing.T) {
	sphere := Scene()[0]
	ray := Ray{Dir: mgl32.Vec3{0, 0, -1}}

	rec := sphere.Hit(ray, 0, TMax)
	if !rec.Hit {
		t.Fatal("expected hit")
	}
	if !mgl32.FloatEqualThreshold(rec.T, 0.5, 1e-6) {
		t.Errorf("T = %v, want 0.5", rec.T)
	}
	if !approxVec3(rec.P, mgl32.Vec3{0, 0, -0.5}, 1e-6) {
		t.Errorf("P = %v, want (0,0,-0.5)", rec.P)
	}
	if !approxVec3(rec.Normal, mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Normal = %v, want (0,0,1)", rec.Normal)
	}
	if !rec.FrontFace {
		t.Error("expected front face")
	}
}

func TestSphere_Hit_FromInside(t *testing.T) {
	// Ray starts at the sphere center: the near root is negative and
	// rejected, the far root at T=0.5 is accepted as a back face.
	sphere := Scene()[0]
	ray := Ray{Orig: mgl32.Vec3{0, 0, -1}, Dir: mgl32.Vec3{0, 0, -1}}

	rec := sphere.Hit(ray, 0, TMax)
	if !rec.Hit {
		t.Fatal("expected hit")
	}
	if !mgl32.FloatEqualThreshold(rec.T, 0.5, 1e-6) {
		t.Errorf("T = %v, want 0.5", rec.T)
	}
	if rec.FrontFace {
		t.Error("expected back face")
	}
	// Oriented against the ray, not outward.
	if !approxVec3(rec.Normal, mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Normal = %v, want (0,0,1)", rec.Normal)
	}
}

func TestSphere_Hit_IntervalBounds(t *testing.T) {
	sphere := Scene()[0]
	ray := Ray{Dir: mgl32.Vec3{0, 0, -1}} // roots at 0.5 and 1.5

	tests := []struct {
		name       string
		tMin, tMax float32
		wantHit    bool
		wantT      float32
	}{
		{"both inside", 0, TMax, true, 0.5},
		{"near excluded, far accepted", 0.5, TMax, true, 1.5},
		{"open interval rejects exact roots", 0.5, 1.5, false, 0},
		{"far excluded by tMax", 0, 0.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sphere.Hit(ray, tt.tMin, tt.tMax)
			if rec.Hit != tt.wantHit {
				t.Fatalf("Hit = %v, want %v", rec.Hit, tt.wantHit)
			}
			if rec.Hit && !mgl32.FloatEqualThreshold(rec.T, tt.wantT, 1e-6) {
				t.Errorf("T = %v, want %v", rec.T, tt.wantT)
			}
		})
	}
}

func TestFaceNormal_AlwaysOpposesRay(t *testing.T) {
	tests := []struct {
		name    string
		dir     mgl32.Vec3
		outward mgl32.Vec3
	}{
		{"opposing", mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 1}},
		{"aligned", mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, -1}},
		{"perpendicular", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"oblique front", mgl32.Vec3{1, -1, -1}, mgl32.Vec3{0, 1, 0.2}},
		{"oblique back", mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0.5, 0.5, 0}},
		{"unnormalized", mgl32.Vec3{3, 4, 0}, mgl32.Vec3{0.6, 0.8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, normal := faceNormal(Ray{Dir: tt.dir}, tt.outward)
			if d := tt.dir.Dot(normal); d > 0 {
				t.Errorf("dot(dir, normal) = %v, want <= 0", d)
			}
			wantFront := tt.dir.Dot(tt.outward) < 0
			if front != wantFront {
				t.Errorf("frontFace = %v, want %v", front, wantFront)
			}
			if math.IsNaN(float64(normal.Len())) {
				t.Errorf("normal has NaN component: %v", normal)
			}
		})
	}
}

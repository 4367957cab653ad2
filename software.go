package raytrace

import (
	"image"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// SoftwareRenderer evaluates the ray-tracing kernel on the CPU with a
// worker pool over image rows. It runs the identical per-pixel math as
// the GPU kernel and serves as its reference implementation, so both
// paths can be compared pixel for pixel.
type SoftwareRenderer struct {
	workers int
}

// NewSoftwareRenderer creates a renderer with one worker per CPU.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{workers: runtime.NumCPU()}
}

// Render traces every pixel of a width x height image against the
// given sphere list and returns the result with alpha 255.
//
// Pixel evaluations are fully independent: each worker writes only the
// rows it was handed, so there is no shared mutable state between
// invocations.
func (sr *SoftwareRenderer) Render(width, height int, spheres []Sphere) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	rows := make(chan int, height)
	var wg sync.WaitGroup

	workers := sr.workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				renderRow(img, y, width, height, spheres)
			}
		}()
	}

	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return img
}

// renderRow traces one scanline. Pixel centers map to the [-1,1]^2
// square with no vertical flip, matching the kernel's coordinate
// convention exactly.
func renderRow(img *image.RGBA, y, width, height int, spheres []Sphere) {
	aspect := float32(width) / float32(height)
	v := (float32(y)+0.5)/float32(height)*2 - 1
	for x := 0; x < width; x++ {
		u := (float32(x)+0.5)/float32(width)*2 - 1
		dir := mgl32.Vec3{u * aspect, v, -1}
		c := RayColor(Ray{Dir: dir}, spheres)

		i := img.PixOffset(x, y)
		img.Pix[i+0] = channelToByte(c.X())
		img.Pix[i+1] = channelToByte(c.Y())
		img.Pix[i+2] = channelToByte(c.Z())
		img.Pix[i+3] = 0xff
	}
}

// channelToByte converts a [0,1] color channel to 8-bit with rounding.
func channelToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

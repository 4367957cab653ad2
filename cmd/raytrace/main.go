// Command raytrace renders the fixed sphere scene. By default it opens
// a window and runs the WebGPU compute pipeline; with -cpu it renders
// one frame headlessly through the software path and writes a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/raytrace"
	"github.com/gogpu/raytrace/internal/gpu"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		cpuMode = flag.Bool("cpu", false, "render on the CPU instead of the GPU")
		output  = flag.String("o", "raytrace.png", "output file for -cpu mode")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
		raytrace.SetLogger(logger)
	}

	if *cpuMode {
		if err := renderCPU(*output); err != nil {
			log.Fatalf("raytrace: %v", err)
		}
		return
	}

	if err := run(); err != nil {
		log.Fatalf("raytrace: %v", err)
	}
}

// renderCPU traces one frame at the base resolution through the
// software renderer and writes it as a PNG.
func renderCPU(path string) error {
	img := raytrace.NewSoftwareRenderer().Render(raytrace.BaseWidth, raytrace.BaseHeight, raytrace.Scene())

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	log.Printf("Rendered %dx%d to %s", raytrace.BaseWidth, raytrace.BaseHeight, path)
	return nil
}

// run opens the window, wires resize notifications to the renderer and
// drives one frame per event-loop iteration until the window closes.
func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(raytrace.BaseWidth, raytrace.BaseHeight, "raytrace", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer window.Destroy()

	ctx, err := gpu.NewContext(wgpuglfw.GetSurfaceDescriptor(window))
	if err != nil {
		return err
	}
	defer ctx.Release()

	renderer, err := gpu.NewRenderer(ctx)
	if err != nil {
		return err
	}
	defer renderer.Release()

	width, height := window.GetFramebufferSize()
	if err := renderer.Configure(width, height); err != nil {
		return err
	}

	// Every size notification reconfigures and re-renders immediately;
	// rapid resizes are not coalesced.
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if err := renderer.Configure(w, h); err != nil {
			slog.Warn("resize failed", "error", err)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		if err := renderer.RenderFrame(); err != nil {
			return err
		}
	}
	return nil
}

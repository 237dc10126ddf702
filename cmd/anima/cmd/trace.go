package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/go-drift/anima/cmd/anima/internal/scenario"
	"github.com/go-drift/anima/pkg/animation"
	"github.com/go-drift/anima/pkg/handle"
)

func init() {
	RegisterCommand(&Command{
		Name:  "trace",
		Short: "Render a scenario's factor curves to a PNG",
		Long: `Render factor traces for a scenario.

Samples every animation's eased interpolation factor at each tick from
time zero to the horizon and plots the curves into a PNG, one color per
animation. Useful for eyeballing repeat, reverse, and easing behavior
before wiring a scenario into an app.`,
		Usage: "anima trace <scenario.yaml> [-o trace.png] [--scale N]",
		Run:   runTrace,
	})
}

// tracePalette cycles per animation.
var tracePalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

func runTrace(args []string) error {
	var path, outPath string
	scale := 4
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--out":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a file path", args[i])
			}
			outPath = args[i+1]
			i++
		case "--scale":
			if i+1 >= len(args) {
				return fmt.Errorf("--scale requires a number")
			}
			if _, err := fmt.Sscanf(args[i+1], "%d", &scale); err != nil || scale < 1 || scale > 16 {
				return fmt.Errorf("invalid scale %q (want 1-16)", args[i+1])
			}
			i++
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			path = args[i]
		}
	}
	if path == "" {
		return fmt.Errorf("usage: anima trace <scenario.yaml> [-o trace.png] [--scale N]")
	}
	if outPath == "" {
		outPath = "trace.png"
	}

	s, err := scenario.Load(path, Version)
	if err != nil {
		return err
	}

	a := animation.NewAnimator()
	handles := make([]handle.Animation, 0, len(s.Animations))
	curves := make([]func(float64) float64, 0, len(s.Animations))
	for _, cfg := range s.Animations {
		handles = append(handles, a.Create(cfg.Start.Std(), cfg.Duration.Std(), cfg.Repeat, cfg.Flags()))
		curve, _ := cfg.CurveFunc() // validated by Load
		curves = append(curves, curve)
	}

	step := s.Ticks.Step.Std()
	horizon := s.Ticks.Horizon.Std()
	samples := int(horizon/step) + 1
	if samples < 2 {
		samples = 2
	}

	const plotHeight = 100
	plot := image.NewRGBA(image.Rect(0, 0, samples, plotHeight+1))
	draw.Draw(plot, plot.Bounds(), image.White, image.Point{}, draw.Src)

	for i, h := range handles {
		col := tracePalette[i%len(tracePalette)]
		for x := 0; x < samples; x++ {
			t := time.Duration(x) * step
			f := curves[i](a.Factor(h, t))
			if f < 0 {
				f = 0
			} else if f > 1 {
				f = 1
			}
			y := plotHeight - int(f*plotHeight+0.5)
			plot.SetRGBA(x, y, col)
		}
	}

	// Upscale so per-tick samples are visible at a glance.
	dst := image.NewRGBA(image.Rect(0, 0, samples*scale, (plotHeight+1)*scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), plot, plot.Bounds(), draw.Over, nil)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("failed to encode %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %s (%d animation(s), %d sample(s))\n", outPath, len(handles), samples)
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/go-drift/anima/cmd/anima/internal/scenario"
	"github.com/go-drift/anima/pkg/animation"
	"github.com/go-drift/anima/pkg/handle"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Advance a scenario tick by tick and log transitions",
		Long: `Run a scenario against the timing core.

Loads the scenario file, creates its animations, then advances the
animator from time zero to the tick horizon in fixed steps. Every
lifecycle transition (started, stopped, removed) is printed with the
animation's eased factor at that tick.

With --realtime the ticks are paced by the wall clock instead of
running as fast as possible, so the log unfolds at scenario speed.`,
		Usage: "anima run <scenario.yaml> [--realtime]",
		Run:   runRun,
	})
}

func runRun(args []string) error {
	var path string
	realtime := false
	for _, arg := range args {
		switch arg {
		case "--realtime":
			realtime = true
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", arg)
			}
			path = arg
		}
	}
	if path == "" {
		return fmt.Errorf("usage: anima run <scenario.yaml> [--realtime]")
	}

	s, err := scenario.Load(path, Version)
	if err != nil {
		return err
	}

	a := animation.NewAnimator()
	names := make(map[uint32]string, len(s.Animations))
	curves := make(map[uint32]func(float64) float64, len(s.Animations))
	for _, cfg := range s.Animations {
		h := a.Create(cfg.Start.Std(), cfg.Duration.Std(), cfg.Repeat, cfg.Flags())
		curve, _ := cfg.CurveFunc() // validated by Load
		names[handle.AnimationID(h)] = cfg.Name
		curves[handle.AnimationID(h)] = curve
	}

	step := s.Ticks.Step.Std()
	horizon := s.Ticks.Horizon.Std()
	fmt.Printf("Running %d animation(s), step %v, horizon %v\n\n", len(s.Animations), step, horizon)

	out := animation.NewBuffers()
	ticks := 0
	epoch := animation.Now()
	t := time.Duration(0)
	for {
		advanced, clean := a.Update(t, out)
		ticks++

		if advanced {
			for id := 0; id < out.Active.Len(); id++ {
				if !out.Active.Has(id) {
					continue
				}
				name := names[uint32(id)]
				curve := curves[uint32(id)]
				switch {
				case out.Started.Has(id) && out.Stopped.Has(id):
					fmt.Printf("%8v  %-16s started and stopped (factor %.4f)\n", t, name, curve(out.Factors[id]))
				case out.Started.Has(id):
					fmt.Printf("%8v  %-16s started (factor %.4f)\n", t, name, curve(out.Factors[id]))
				case out.Stopped.Has(id):
					fmt.Printf("%8v  %-16s stopped (factor %.4f)\n", t, name, curve(out.Factors[id]))
				}
			}
		}
		if clean {
			gens := a.Generations()
			for id := 0; id < out.Remove.Len(); id++ {
				if !out.Remove.Has(id) {
					continue
				}
				a.Remove(handle.MakeAnimation(uint32(id), gens[id]))
				fmt.Printf("%8v  %-16s removed\n", t, names[uint32(id)])
			}
		}

		if t >= horizon || !a.NeedsAdvance() {
			break
		}
		if realtime {
			time.Sleep(step)
			t = animation.Now().Sub(epoch)
		} else {
			t += step
		}
		if t > horizon {
			t = horizon
		}
	}

	fmt.Printf("\nDone: %d tick(s), %d animation(s) still live\n", ticks, a.UsedCount())
	return nil
}

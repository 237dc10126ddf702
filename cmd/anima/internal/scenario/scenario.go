// Package scenario loads the YAML scenario files consumed by the anima CLI.
//
// A scenario describes a set of animations and a tick cadence; the run and
// trace commands build an animator from it and drive the batched advance.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/anima/pkg/animation"
)

// Duration wraps time.Duration with YAML decoding from strings like
// "500ms" or "1.5s" (or bare integers, taken as nanoseconds).
type Duration time.Duration

// UnmarshalYAML decodes a duration from a scalar node.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if v, err := time.ParseDuration(raw); err == nil {
		*d = Duration(v)
		return nil
	}
	var ns int64
	if err := node.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	*d = Duration(ns)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Scenario is the parsed anima.yaml / scenario file.
type Scenario struct {
	Anima      AnimaConfig       `yaml:"anima"`
	Ticks      TickConfig        `yaml:"ticks"`
	Animations []AnimationConfig `yaml:"animations"`
}

// AnimaConfig carries tool-level requirements.
type AnimaConfig struct {
	// MinVersion is the minimum anima CLI version the scenario needs,
	// as a semver string like "v0.1.0".
	MinVersion string `yaml:"min_version,omitempty"`
}

// TickConfig sets the advance cadence.
type TickConfig struct {
	// Step is the time between updates (default 16ms).
	Step Duration `yaml:"step,omitempty"`
	// Horizon is the total simulated time span (default 1s).
	Horizon Duration `yaml:"horizon,omitempty"`
}

// AnimationConfig describes one animation to create.
type AnimationConfig struct {
	Name              string   `yaml:"name"`
	Start             Duration `yaml:"start"`
	Duration          Duration `yaml:"duration"`
	Repeat            uint32   `yaml:"repeat"`
	Reverse           bool     `yaml:"reverse,omitempty"`
	ReverseEveryOther bool     `yaml:"reverse_every_other,omitempty"`
	KeepOncePlayed    bool     `yaml:"keep_once_played,omitempty"`
	Curve             string   `yaml:"curve,omitempty"`
}

// Flags converts the boolean options to playback flags.
func (a AnimationConfig) Flags() animation.Flags {
	var f animation.Flags
	if a.Reverse {
		f |= animation.Reverse
	}
	if a.ReverseEveryOther {
		f |= animation.ReverseEveryOther
	}
	if a.KeepOncePlayed {
		f |= animation.KeepOncePlayed
	}
	return f
}

// CurveFunc resolves the named easing curve, defaulting to linear.
func (a AnimationConfig) CurveFunc() (func(float64) float64, error) {
	switch a.Curve {
	case "", "linear":
		return animation.LinearCurve, nil
	case "ease":
		return animation.Ease, nil
	case "ease-in":
		return animation.EaseIn, nil
	case "ease-out":
		return animation.EaseOut, nil
	case "ease-in-out":
		return animation.EaseInOut, nil
	default:
		return nil, fmt.Errorf("unknown curve %q", a.Curve)
	}
}

// Load reads and validates a scenario file. toolVersion is the running
// CLI's version, checked against the scenario's min_version requirement.
func Load(path, toolVersion string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.validate(toolVersion); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Ticks.Step <= 0 {
		s.Ticks.Step = Duration(16 * time.Millisecond)
	}
	if s.Ticks.Horizon <= 0 {
		s.Ticks.Horizon = Duration(time.Second)
	}
}

func (s *Scenario) validate(toolVersion string) error {
	if min := s.Anima.MinVersion; min != "" {
		if !semver.IsValid(min) {
			return fmt.Errorf("invalid min_version %q (want a semver string like v0.1.0)", min)
		}
		if semver.Compare(canonicalVersion(toolVersion), min) < 0 {
			return fmt.Errorf("scenario requires anima %s or newer, this is %s", min, toolVersion)
		}
	}

	if len(s.Animations) == 0 {
		return errors.New("scenario has no animations")
	}
	seen := make(map[string]bool, len(s.Animations))
	for i, a := range s.Animations {
		if a.Name == "" {
			return fmt.Errorf("animation %d has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate animation name %q", a.Name)
		}
		seen[a.Name] = true
		if a.Duration < 0 {
			return fmt.Errorf("animation %q has negative duration", a.Name)
		}
		if a.Duration == 0 && a.Repeat != 1 {
			return fmt.Errorf("animation %q: zero duration requires repeat 1", a.Name)
		}
		if _, err := a.CurveFunc(); err != nil {
			return fmt.Errorf("animation %q: %w", a.Name, err)
		}
	}
	return nil
}

// canonicalVersion turns tool version strings like "0.1.0-dev" into the
// "v"-prefixed form the semver package expects.
func canonicalVersion(v string) string {
	if v == "" {
		return "v0.0.0"
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "v0.0.0"
	}
	return v
}

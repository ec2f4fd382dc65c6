package tui

import (
	"math/rand/v2"

	"github.com/ensigniasec/cybershield/internal/scan"
)

// switchRandom draws verdicts from the global source, or from a seeded PCG
// while demo mode is on so that demo runs repeat.
type switchRandom struct {
	seed   uint64
	demo   bool
	seeded *rand.Rand
}

func newSwitchRandom(seed uint64, demo bool) *switchRandom {
	r := &switchRandom{seed: seed}
	r.SetDemo(demo)
	return r
}

// SetDemo toggles demo mode. Enabling it restarts the seeded sequence.
func (r *switchRandom) SetDemo(on bool) {
	r.demo = on
	if on {
		r.seeded = scan.NewSeededRandom(r.seed)
	}
}

// Demo reports whether demo mode is on.
func (r *switchRandom) Demo() bool { return r.demo }

func (r *switchRandom) Float64() float64 {
	if r.demo {
		return r.seeded.Float64()
	}
	return rand.Float64() //nolint:gosec // simulated verdicts only
}

func (r *switchRandom) IntN(n int) int {
	if r.demo {
		return r.seeded.IntN(n)
	}
	return rand.IntN(n) //nolint:gosec // simulated verdicts only
}

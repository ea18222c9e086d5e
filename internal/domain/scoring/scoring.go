// Package scoring holds the numeric primitives shared by the calculators:
// clamping, piecewise-linear ramps, weighted composites and the
// instrumentation hook.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/vitals/internal/domain/types"
)

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0

	// NeutralScore is the policy value reported when a metric has no usable
	// baseline.
	NeutralScore = 50.0

	weightTolerance = 1e-9
)

// Clamp bounds v to [MinScore, MaxScore]. NaN clamps to MinScore.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}

// Ramp linearly maps x from [x0, x1] onto [y0, y1]. x outside the interval
// extrapolates along the same line.
func Ramp(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Ratio returns num/den, or 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// Weights maps component names to their fraction of a composite.
type Weights map[string]float64

// Validate checks that every weight lies in [0,1] and that they sum to 1.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return ErrNoWeights
	}
	sum := 0.0
	for name, v := range w {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrWeightRange, name, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: got %v", ErrWeightSum, sum)
	}
	return nil
}

// Names returns the component names in a stable order.
func (w Weights) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compose clamps each raw score, applies its weight and clamps the total.
// Components without a weight contribute nothing.
func Compose(w Weights, raw map[string]float64) types.CompositeScore {
	out := types.CompositeScore{
		Components: make(map[string]types.ScoreComponent, len(w)),
	}
	total := 0.0
	// Sum in name order so floating point results do not depend on map order.
	for _, name := range w.Names() {
		score := Clamp(raw[name])
		out.Components[name] = types.ScoreComponent{Score: score, Weight: w[name]}
		total += score * w[name]
	}
	out.TotalScore = Clamp(total)
	return out
}

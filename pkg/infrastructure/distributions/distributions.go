// Package distributions provides the demand distributions used by demand
// sources. Sampling draws from the caller's generator so that a simulation
// seeded once is reproducible end to end.
package distributions

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// maxQuantileSearch bounds the cumulative search for discrete quantiles
const maxQuantileSearch = 1 << 20

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", entities.ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// source adapts the caller's generator; a nil generator falls back to the
// global source
func source(rng *rand.Rand) rand.Source {
	if rng == nil {
		return nil
	}
	return rng
}

// Normal is a normal distribution truncated at zero by the demand source
type Normal struct {
	Mu, Sigma float64
}

// NewNormal creates a validated normal distribution
func NewNormal(mean, stdDev float64) (*Normal, error) {
	if stdDev < 0 || math.IsNaN(stdDev) {
		return nil, invalid("normal standard deviation cannot be negative, got %g", stdDev)
	}
	return &Normal{Mu: mean, Sigma: stdDev}, nil
}

func (d *Normal) Sample(rng *rand.Rand) float64 {
	if d.Sigma == 0 {
		return d.Mu
	}
	return distuv.Normal{Mu: d.Mu, Sigma: d.Sigma, Src: source(rng)}.Rand()
}

func (d *Normal) Quantile(p float64) float64 {
	if d.Sigma == 0 {
		return d.Mu
	}
	return distuv.Normal{Mu: d.Mu, Sigma: d.Sigma}.Quantile(p)
}

func (d *Normal) Mean() float64   { return d.Mu }
func (d *Normal) StdDev() float64 { return d.Sigma }

// Poisson is a Poisson distribution
type Poisson struct {
	Lambda float64
}

// NewPoisson creates a validated Poisson distribution
func NewPoisson(lambda float64) (*Poisson, error) {
	if lambda < 0 || math.IsNaN(lambda) {
		return nil, invalid("poisson mean cannot be negative, got %g", lambda)
	}
	return &Poisson{Lambda: lambda}, nil
}

func (d *Poisson) Sample(rng *rand.Rand) float64 {
	if d.Lambda == 0 {
		return 0
	}
	return distuv.Poisson{Lambda: d.Lambda, Src: source(rng)}.Rand()
}

// Quantile returns the smallest integer k with CDF(k) >= p
func (d *Poisson) Quantile(p float64) float64 {
	if d.Lambda == 0 || p <= 0 {
		return 0
	}
	dist := distuv.Poisson{Lambda: d.Lambda}
	return discreteQuantile(p, func(k float64) float64 { return dist.CDF(k) })
}

func (d *Poisson) Mean() float64   { return d.Lambda }
func (d *Poisson) StdDev() float64 { return math.Sqrt(d.Lambda) }

func discreteQuantile(p float64, cdf func(float64) float64) float64 {
	if p >= 1 {
		return math.Inf(1)
	}
	for k := 0; k < maxQuantileSearch; k++ {
		if cdf(float64(k)) >= p {
			return float64(k)
		}
	}
	return math.Inf(1)
}

// UniformDiscrete draws integers uniformly from [Lo, Hi]
type UniformDiscrete struct {
	Lo, Hi int
}

// NewUniformDiscrete creates a validated discrete uniform distribution
func NewUniformDiscrete(lo, hi int) (*UniformDiscrete, error) {
	if hi < lo {
		return nil, invalid("uniform upper bound %d is below lower bound %d", hi, lo)
	}
	return &UniformDiscrete{Lo: lo, Hi: hi}, nil
}

func (d *UniformDiscrete) Sample(rng *rand.Rand) float64 {
	u := distuv.Uniform{Min: float64(d.Lo), Max: float64(d.Hi + 1), Src: source(rng)}.Rand()
	return math.Min(math.Floor(u), float64(d.Hi))
}

func (d *UniformDiscrete) Quantile(p float64) float64 {
	n := float64(d.Hi - d.Lo + 1)
	k := math.Ceil(p*n) - 1
	return float64(d.Lo) + math.Max(0, math.Min(k, n-1))
}

func (d *UniformDiscrete) Mean() float64 { return float64(d.Lo+d.Hi) / 2 }

func (d *UniformDiscrete) StdDev() float64 {
	n := float64(d.Hi - d.Lo + 1)
	return math.Sqrt((n*n - 1) / 12)
}

// UniformContinuous draws reals uniformly from [Lo, Hi)
type UniformContinuous struct {
	Lo, Hi float64
}

// NewUniformContinuous creates a validated continuous uniform distribution
func NewUniformContinuous(lo, hi float64) (*UniformContinuous, error) {
	if hi < lo {
		return nil, invalid("uniform upper bound %g is below lower bound %g", hi, lo)
	}
	return &UniformContinuous{Lo: lo, Hi: hi}, nil
}

func (d *UniformContinuous) Sample(rng *rand.Rand) float64 {
	if d.Hi == d.Lo {
		return d.Lo
	}
	return distuv.Uniform{Min: d.Lo, Max: d.Hi, Src: source(rng)}.Rand()
}

func (d *UniformContinuous) Quantile(p float64) float64 {
	if d.Hi == d.Lo {
		return d.Lo
	}
	return distuv.Uniform{Min: d.Lo, Max: d.Hi}.Quantile(p)
}

func (d *UniformContinuous) Mean() float64   { return (d.Lo + d.Hi) / 2 }
func (d *UniformContinuous) StdDev() float64 { return (d.Hi - d.Lo) / math.Sqrt(12) }

// CustomDiscrete draws from an explicit support with matching probabilities
type CustomDiscrete struct {
	Values        []float64
	Probabilities []float64
}

// NewCustomDiscrete creates a validated custom discrete distribution. The
// support is sorted; probabilities must be non-negative and sum to one.
func NewCustomDiscrete(values, probabilities []float64) (*CustomDiscrete, error) {
	if len(values) == 0 {
		return nil, invalid("custom discrete distribution requires at least one value")
	}
	if len(values) != len(probabilities) {
		return nil, invalid("custom discrete distribution has %d values but %d probabilities", len(values), len(probabilities))
	}
	total := 0.0
	for i, p := range probabilities {
		if p < 0 || math.IsNaN(p) {
			return nil, invalid("probability at index %d cannot be negative, got %g", i, p)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-6 {
		return nil, invalid("custom discrete probabilities must sum to 1, got %g", total)
	}

	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	d := &CustomDiscrete{
		Values:        make([]float64, len(values)),
		Probabilities: make([]float64, len(values)),
	}
	for i, j := range idx {
		d.Values[i] = values[j]
		d.Probabilities[i] = probabilities[j]
	}
	return d, nil
}

func (d *CustomDiscrete) Sample(rng *rand.Rand) float64 {
	i := distuv.NewCategorical(d.Probabilities, source(rng)).Rand()
	return d.Values[int(i)]
}

func (d *CustomDiscrete) Quantile(p float64) float64 {
	cumulative := 0.0
	for i, prob := range d.Probabilities {
		cumulative += prob
		if cumulative >= p-1e-12 {
			return d.Values[i]
		}
	}
	return d.Values[len(d.Values)-1]
}

func (d *CustomDiscrete) Mean() float64 {
	mean := 0.0
	for i, v := range d.Values {
		mean += v * d.Probabilities[i]
	}
	return mean
}

func (d *CustomDiscrete) StdDev() float64 {
	mean := d.Mean()
	variance := 0.0
	for i, v := range d.Values {
		variance += (v - mean) * (v - mean) * d.Probabilities[i]
	}
	return math.Sqrt(variance)
}

// NegativeBinomial counts failures before the R-th success with success
// probability P. Draws use the gamma-Poisson mixture.
type NegativeBinomial struct {
	R, P float64
}

// NewNegativeBinomial creates a validated negative binomial distribution
func NewNegativeBinomial(r, p float64) (*NegativeBinomial, error) {
	if r <= 0 || math.IsNaN(r) {
		return nil, invalid("negative binomial r must be positive, got %g", r)
	}
	if p <= 0 || p > 1 || math.IsNaN(p) {
		return nil, invalid("negative binomial p must be in (0,1], got %g", p)
	}
	return &NegativeBinomial{R: r, P: p}, nil
}

func (d *NegativeBinomial) Sample(rng *rand.Rand) float64 {
	if d.P == 1 {
		return 0
	}
	lambda := distuv.Gamma{Alpha: d.R, Beta: d.P / (1 - d.P), Src: source(rng)}.Rand()
	if lambda <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda, Src: source(rng)}.Rand()
}

// Quantile returns the smallest integer k with CDF(k) >= p
func (d *NegativeBinomial) Quantile(p float64) float64 {
	if d.P == 1 || p <= 0 {
		return 0
	}
	// P(X=k) = C(k+r-1, k) p^r (1-p)^k, accumulated in log space
	logP := d.R * math.Log(d.P)
	log1mP := math.Log(1 - d.P)
	lgR, _ := math.Lgamma(d.R)
	cumulative := 0.0
	return discreteQuantile(p, func(k float64) float64 {
		lgK, _ := math.Lgamma(k + d.R)
		lgF, _ := math.Lgamma(k + 1)
		cumulative += math.Exp(lgK - lgF - lgR + logP + k*log1mP)
		return cumulative
	})
}

func (d *NegativeBinomial) Mean() float64 { return d.R * (1 - d.P) / d.P }

func (d *NegativeBinomial) StdDev() float64 { return math.Sqrt(d.R*(1-d.P)) / d.P }

// Verify interface compliance
var (
	_ entities.Distribution = (*Normal)(nil)
	_ entities.Distribution = (*Poisson)(nil)
	_ entities.Distribution = (*UniformDiscrete)(nil)
	_ entities.Distribution = (*UniformContinuous)(nil)
	_ entities.Distribution = (*CustomDiscrete)(nil)
	_ entities.Distribution = (*NegativeBinomial)(nil)
)

package entities

import (
	"math"
	"math/rand/v2"
)

// DemandType tags the distribution family behind a demand source
type DemandType string

const (
	DemandNone              DemandType = ""
	DemandNormal            DemandType = "N"
	DemandPoisson           DemandType = "P"
	DemandUniformDiscrete   DemandType = "UD"
	DemandUniformContinuous DemandType = "UC"
	DemandDeterministic     DemandType = "D"
	DemandCustomDiscrete    DemandType = "CD"
	DemandNegativeBinomial  DemandType = "NB"
)

// Distribution is a single-period demand distribution. Implementations are
// provided by the distributions package.
type Distribution interface {
	Sample(rng *rand.Rand) float64
	Quantile(p float64) float64
	Mean() float64
	StdDev() float64
}

// DemandSource produces one realized demand per period
type DemandSource struct {
	Type         DemandType
	Distribution Distribution
	// List holds the deterministic demand sequence; a scalar is a one-element list
	List       []float64
	RoundToInt bool
}

// Validate checks that the source is usable for its type
func (d *DemandSource) Validate() error {
	switch d.Type {
	case DemandNone:
		return nil
	case DemandDeterministic:
		if len(d.List) == 0 {
			return invalidParam("deterministic demand requires at least one value")
		}
		for i, v := range d.List {
			if v < 0 {
				return invalidParam("deterministic demand at index %d cannot be negative, got %g", i, v)
			}
		}
		return nil
	case DemandNormal, DemandPoisson, DemandUniformDiscrete, DemandUniformContinuous,
		DemandCustomDiscrete, DemandNegativeBinomial:
		if d.Distribution == nil {
			return invalidParam("demand type %q requires a distribution", d.Type)
		}
		return nil
	default:
		return invalidParam("unknown demand type %q", d.Type)
	}
}

// GenerateDemand returns the realized demand for a period. Negative draws are
// clamped to zero.
func (d *DemandSource) GenerateDemand(period int, rng *rand.Rand) (float64, error) {
	if d == nil {
		return 0, nil
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	var demand float64
	switch d.Type {
	case DemandNone:
		return 0, nil
	case DemandDeterministic:
		demand = d.List[period%len(d.List)]
	default:
		demand = d.Distribution.Sample(rng)
	}

	if d.RoundToInt {
		demand = math.Round(demand)
	}
	return math.Max(0, demand), nil
}

// Mean returns the expected single-period demand
func (d *DemandSource) Mean() float64 {
	if d == nil {
		return 0
	}
	switch d.Type {
	case DemandNone:
		return 0
	case DemandDeterministic:
		if len(d.List) == 0 {
			return 0
		}
		sum := 0.0
		for _, v := range d.List {
			sum += v
		}
		return sum / float64(len(d.List))
	default:
		if d.Distribution == nil {
			return 0
		}
		return d.Distribution.Mean()
	}
}

// StdDev returns the single-period demand standard deviation
func (d *DemandSource) StdDev() float64 {
	if d == nil || d.Type == DemandNone {
		return 0
	}
	if d.Type == DemandDeterministic {
		mean := d.Mean()
		sum := 0.0
		for _, v := range d.List {
			sum += (v - mean) * (v - mean)
		}
		return math.Sqrt(sum / float64(len(d.List)))
	}
	if d.Distribution == nil {
		return 0
	}
	return d.Distribution.StdDev()
}

// LeadTimeDemand returns the mean and standard deviation of the sum of
// leadTime i.i.d. periodic demands
func (d *DemandSource) LeadTimeDemand(leadTime int) (mean, stdDev float64) {
	if leadTime <= 0 {
		return 0, 0
	}
	l := float64(leadTime)
	return l * d.Mean(), math.Sqrt(l) * d.StdDev()
}

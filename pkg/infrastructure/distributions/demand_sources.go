package distributions

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
)

// Params carries the parameters of every demand type; each type reads only
// the fields it needs
type Params struct {
	Mean          float64
	StdDev        float64
	Lo, Hi        float64
	Values        []float64
	Probabilities []float64
	R, P          float64
	RoundToInt    bool
}

// NewDemandSource builds a validated demand source of the given type
func NewDemandSource(typ entities.DemandType, p Params) (*entities.DemandSource, error) {
	ds := &entities.DemandSource{Type: typ, RoundToInt: p.RoundToInt}

	var (
		dist entities.Distribution
		err  error
	)
	switch typ {
	case entities.DemandNone:
	case entities.DemandNormal:
		dist, err = NewNormal(p.Mean, p.StdDev)
	case entities.DemandPoisson:
		dist, err = NewPoisson(p.Mean)
	case entities.DemandUniformDiscrete:
		dist, err = NewUniformDiscrete(int(p.Lo), int(p.Hi))
	case entities.DemandUniformContinuous:
		dist, err = NewUniformContinuous(p.Lo, p.Hi)
	case entities.DemandCustomDiscrete:
		dist, err = NewCustomDiscrete(p.Values, p.Probabilities)
	case entities.DemandNegativeBinomial:
		dist, err = NewNegativeBinomial(p.R, p.P)
	case entities.DemandDeterministic:
		ds.List = append([]float64(nil), p.Values...)
	default:
		return nil, invalid("unknown demand type %q", typ)
	}
	if err != nil {
		return nil, err
	}
	ds.Distribution = dist

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// NormalDemand is shorthand for a normal demand source
func NormalDemand(mean, stdDev float64) (*entities.DemandSource, error) {
	return NewDemandSource(entities.DemandNormal, Params{Mean: mean, StdDev: stdDev})
}

// PoissonDemand is shorthand for a Poisson demand source
func PoissonDemand(mean float64) (*entities.DemandSource, error) {
	return NewDemandSource(entities.DemandPoisson, Params{Mean: mean})
}

// DeterministicDemand returns the values in order, cycling when exhausted
func DeterministicDemand(values ...float64) (*entities.DemandSource, error) {
	return NewDemandSource(entities.DemandDeterministic, Params{Values: values})
}

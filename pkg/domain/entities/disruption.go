package entities

import (
	"math/rand/v2"
	"slices"
)

// DisruptionType identifies which pipeline stage a DOWN node blocks
type DisruptionType string

const (
	// OrderPausing: the node cannot place orders
	OrderPausing DisruptionType = "OP"
	// ShipmentPausing: predecessors hold shipments to the node
	ShipmentPausing DisruptionType = "SP"
	// TransitPausing: items in transit to the node stop advancing
	TransitPausing DisruptionType = "TP"
	// ReceiptPausing: arriving items are held until the node recovers
	ReceiptPausing DisruptionType = "RP"
)

// DisruptionModel identifies the random process driving the UP/DOWN state
type DisruptionModel string

const (
	DisruptionModelNone      DisruptionModel = ""
	DisruptionModelMarkovian DisruptionModel = "M"
	DisruptionModelRandom    DisruptionModel = "R"
	DisruptionModelExplicit  DisruptionModel = "E"
)

// DisruptionProcess is a two-state UP/DOWN process attached to a node
type DisruptionProcess struct {
	Model DisruptionModel
	Type  DisruptionType
	// DisruptionProbability is alpha: P(UP -> DOWN), or P(DOWN) for the random model
	DisruptionProbability float64
	// RecoveryProbability is beta: P(DOWN -> UP)
	RecoveryProbability float64
	// DisruptedPeriods lists the DOWN periods for the explicit model
	DisruptedPeriods []int

	Disrupted          bool
	InitiallyDisrupted bool
}

// NewDisruptionProcess creates a validated DisruptionProcess starting UP
func NewDisruptionProcess(model DisruptionModel, typ DisruptionType, alpha, beta float64, periods []int) (*DisruptionProcess, error) {
	d := &DisruptionProcess{
		Model:                 model,
		Type:                  typ,
		DisruptionProbability: alpha,
		RecoveryProbability:   beta,
		DisruptedPeriods:      append([]int(nil), periods...),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the type tag and probability ranges
func (d *DisruptionProcess) Validate() error {
	switch d.Type {
	case OrderPausing, ShipmentPausing, TransitPausing, ReceiptPausing:
	default:
		return invalidParam("unknown disruption type %q", d.Type)
	}
	switch d.Model {
	case DisruptionModelNone, DisruptionModelExplicit:
	case DisruptionModelMarkovian:
		if err := checkProbability("disruption probability", d.DisruptionProbability); err != nil {
			return err
		}
		if err := checkProbability("recovery probability", d.RecoveryProbability); err != nil {
			return err
		}
	case DisruptionModelRandom:
		if err := checkProbability("disruption probability", d.DisruptionProbability); err != nil {
			return err
		}
	default:
		return invalidParam("unknown disruption model %q", d.Model)
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return invalidParam("%s must be in [0,1], got %g", name, p)
	}
	return nil
}

// Reset restores the configured initial state
func (d *DisruptionProcess) Reset() {
	d.Disrupted = d.InitiallyDisrupted
}

// UpdateStatus advances the process by one period
func (d *DisruptionProcess) UpdateStatus(period int, rng *rand.Rand) error {
	if err := d.Validate(); err != nil {
		return err
	}
	switch d.Model {
	case DisruptionModelNone:
		d.Disrupted = false
	case DisruptionModelMarkovian:
		u := rng.Float64()
		if d.Disrupted {
			if u < d.RecoveryProbability {
				d.Disrupted = false
			}
		} else if u < d.DisruptionProbability {
			d.Disrupted = true
		}
	case DisruptionModelRandom:
		d.Disrupted = rng.Float64() < d.DisruptionProbability
	case DisruptionModelExplicit:
		d.Disrupted = slices.Contains(d.DisruptedPeriods, period)
	}
	return nil
}

// IsUp reports whether the process is UP. A nil process is always UP.
func (d *DisruptionProcess) IsUp() bool {
	return d == nil || !d.Disrupted
}

// Blocks reports whether the process is DOWN with the given disruption type
func (d *DisruptionProcess) Blocks(typ DisruptionType) bool {
	return d != nil && d.Disrupted && d.Type == typ
}

// SteadyStateDownProbability returns the long-run fraction of DOWN periods
func (d *DisruptionProcess) SteadyStateDownProbability() float64 {
	switch d.Model {
	case DisruptionModelMarkovian:
		if d.DisruptionProbability+d.RecoveryProbability == 0 {
			if d.InitiallyDisrupted {
				return 1
			}
			return 0
		}
		return d.DisruptionProbability / (d.DisruptionProbability + d.RecoveryProbability)
	case DisruptionModelRandom:
		return d.DisruptionProbability
	default:
		return 0
	}
}

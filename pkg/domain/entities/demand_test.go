package entities

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// constantDistribution always draws the same value
type constantDistribution float64

func (c constantDistribution) Sample(*rand.Rand) float64 { return float64(c) }
func (c constantDistribution) Quantile(float64) float64  { return float64(c) }
func (c constantDistribution) Mean() float64             { return float64(c) }
func (c constantDistribution) StdDev() float64           { return 0 }

func TestDemandSource_GenerateDemand(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	tests := []struct {
		name     string
		source   *DemandSource
		period   int
		expected float64
	}{
		{"nil_source", nil, 0, 0},
		{"none", &DemandSource{Type: DemandNone}, 3, 0},
		{"deterministic_scalar", &DemandSource{Type: DemandDeterministic, List: []float64{5}}, 9, 5},
		{"deterministic_list", &DemandSource{Type: DemandDeterministic, List: []float64{1, 2, 3}}, 1, 2},
		{"deterministic_list_cycles", &DemandSource{Type: DemandDeterministic, List: []float64{1, 2, 3}}, 4, 2},
		{"negative_draw_clamped", &DemandSource{Type: DemandNormal, Distribution: constantDistribution(-3)}, 0, 0},
		{"rounded", &DemandSource{Type: DemandNormal, Distribution: constantDistribution(4.6), RoundToInt: true}, 0, 5},
		{"unrounded", &DemandSource{Type: DemandNormal, Distribution: constantDistribution(4.6)}, 0, 4.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.source.GenerateDemand(tt.period, rng)
			if err != nil {
				t.Fatalf("GenerateDemand failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("GenerateDemand(%d) = %g, want %g", tt.period, got, tt.expected)
			}
		})
	}
}

func TestDemandSource_InvalidConfiguration(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	bad := []*DemandSource{
		{Type: DemandPoisson},
		{Type: DemandDeterministic},
		{Type: DemandDeterministic, List: []float64{1, -1}},
		{Type: "ZZ"},
	}
	for _, ds := range bad {
		if _, err := ds.GenerateDemand(0, rng); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Expected ErrInvalidParameter for %+v, got %v", ds, err)
		}
	}
}

func TestDemandSource_LeadTimeDemand(t *testing.T) {
	ds := &DemandSource{Type: DemandDeterministic, List: []float64{2, 4}}
	if ds.Mean() != 3 {
		t.Errorf("Expected mean 3, got %g", ds.Mean())
	}
	if ds.StdDev() != 1 {
		t.Errorf("Expected std dev 1, got %g", ds.StdDev())
	}

	mean, std := ds.LeadTimeDemand(4)
	if mean != 12 || math.Abs(std-2) > 1e-12 {
		t.Errorf("LeadTimeDemand(4) = (%g, %g), want (12, 2)", mean, std)
	}
	if mean, std := ds.LeadTimeDemand(0); mean != 0 || std != 0 {
		t.Errorf("Expected zero lead-time demand for L=0, got (%g, %g)", mean, std)
	}
}

package services

import (
	"math"
	"testing"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

func TestFeasibleProduction(t *testing.T) {
	tests := []struct {
		name     string
		reqs     map[entities.ProductID]float64
		stock    map[entities.ProductID]float64
		expected float64
	}{
		{"single_material", map[entities.ProductID]float64{1: 1}, map[entities.ProductID]float64{1: 8}, 8},
		{"bottleneck", map[entities.ProductID]float64{1: 1, 2: 2}, map[entities.ProductID]float64{1: 8, 2: 6}, 3},
		{"fractional", map[entities.ProductID]float64{1: 4}, map[entities.ProductID]float64{1: 3}, 0.75},
		{"missing_material", map[entities.ProductID]float64{1: 1, 2: 1}, map[entities.ProductID]float64{1: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeasibleProduction(tt.reqs, tt.stock); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("FeasibleProduction = %g, want %g", got, tt.expected)
			}
		})
	}

	if got := FeasibleProduction(nil, nil); !math.IsInf(got, 1) {
		t.Errorf("Expected unbounded production without requirements, got %g", got)
	}
}

func TestProduce(t *testing.T) {
	reqs := map[entities.ProductID]float64{1: 2, 2: 1}
	stock := map[entities.ProductID]float64{1: 10, 2: 3}

	produced := Produce(5, reqs, stock)
	if produced != 3 {
		t.Fatalf("Produce = %g, want 3", produced)
	}
	if stock[1] != 4 || stock[2] != 0 {
		t.Errorf("Unexpected remaining stock %v", stock)
	}

	if got := Produce(0, reqs, stock); got != 0 {
		t.Errorf("Expected nothing produced without pending orders, got %g", got)
	}
	if got := Produce(2, reqs, stock); got != 0 {
		t.Errorf("Expected nothing produced without material, got %g", got)
	}
}

func TestProduce_FractionalAssembly(t *testing.T) {
	reqs := map[entities.ProductID]float64{1: 5, 2: 3}

	if got := FeasibleProduction(reqs, map[entities.ProductID]float64{1: 10, 2: 9}); got != 2 {
		t.Errorf("FeasibleProduction = %g, want 2", got)
	}

	stock := map[entities.ProductID]float64{1: 10, 2: 5}
	produced := Produce(100, reqs, stock)
	if math.Abs(produced-5.0/3) > 1e-9 {
		t.Fatalf("Produce = %g, want 5/3", produced)
	}
	if math.Abs(stock[1]-5.0/3) > 1e-9 {
		t.Errorf("Expected 1.667 units of the first material left, got %g", stock[1])
	}
	if stock[2] != 0 {
		t.Errorf("Expected the second material used up, got %g", stock[2])
	}
}

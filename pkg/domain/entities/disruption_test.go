package entities

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestDisruptionProcess_Explicit(t *testing.T) {
	d, err := NewDisruptionProcess(DisruptionModelExplicit, TransitPausing, 0, 0, []int{2, 3})
	if err != nil {
		t.Fatalf("NewDisruptionProcess failed: %v", err)
	}
	rng := rand.New(rand.NewPCG(1, 1))

	want := []bool{false, false, true, true, false}
	for period, down := range want {
		if err := d.UpdateStatus(period, rng); err != nil {
			t.Fatal(err)
		}
		if d.Disrupted != down {
			t.Errorf("period %d: Disrupted = %v, want %v", period, d.Disrupted, down)
		}
		if d.Blocks(TransitPausing) != down || d.Blocks(OrderPausing) {
			t.Errorf("period %d: Blocks inconsistent with a DOWN=%v transit-pausing process", period, down)
		}
	}
}

func TestDisruptionProcess_MarkovianExtremes(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	always, _ := NewDisruptionProcess(DisruptionModelMarkovian, OrderPausing, 1, 0, nil)
	never, _ := NewDisruptionProcess(DisruptionModelMarkovian, OrderPausing, 0, 1, nil)
	for period := 0; period < 20; period++ {
		_ = always.UpdateStatus(period, rng)
		_ = never.UpdateStatus(period, rng)
		if !always.Disrupted {
			t.Fatalf("period %d: alpha=1, beta=0 should stay DOWN", period)
		}
		if !never.IsUp() {
			t.Fatalf("period %d: alpha=0 should stay UP", period)
		}
	}

	if p := always.SteadyStateDownProbability(); p != 1 {
		t.Errorf("Expected steady-state DOWN probability 1, got %g", p)
	}
	half, _ := NewDisruptionProcess(DisruptionModelMarkovian, OrderPausing, 0.1, 0.1, nil)
	if p := half.SteadyStateDownProbability(); p != 0.5 {
		t.Errorf("Expected steady-state DOWN probability 0.5, got %g", p)
	}
}

func TestDisruptionProcess_InvalidProbability(t *testing.T) {
	if _, err := NewDisruptionProcess(DisruptionModelMarkovian, OrderPausing, -0.1, 0.5, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewDisruptionProcess(DisruptionModelRandom, ReceiptPausing, 1.2, 0, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewDisruptionProcess(DisruptionModelMarkovian, "XX", 0.1, 0.5, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for unknown type, got %v", err)
	}

	// mutated after construction: caught at update time
	d, _ := NewDisruptionProcess(DisruptionModelRandom, ReceiptPausing, 0.5, 0, nil)
	d.DisruptionProbability = 2
	if err := d.UpdateStatus(0, rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter from UpdateStatus, got %v", err)
	}
}

func TestDisruptionProcess_NilIsUp(t *testing.T) {
	var d *DisruptionProcess
	if !d.IsUp() || d.Blocks(OrderPausing) {
		t.Error("Expected a nil process to be UP and block nothing")
	}
}

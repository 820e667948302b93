package entities

import (
	"errors"
	"testing"
)

func TestPolicy_OrderQuantity(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		ip, eip  float64
		expected float64
	}{
		{"base_stock_below", &BaseStockPolicy{Level: 13}, 1, 0, 12},
		{"base_stock_above", &BaseStockPolicy{Level: 13}, 20, 0, 0},
		{"rQ_triggered", &RQPolicy{ReorderPoint: 5, Quantity: 20}, 5, 0, 20},
		{"rQ_not_triggered", &RQPolicy{ReorderPoint: 5, Quantity: 20}, 6, 0, 0},
		{"sS_triggered", &SSPolicy{ReorderPoint: 5, OrderUpTo: 30}, 2, 0, 28},
		{"sS_not_triggered", &SSPolicy{ReorderPoint: 5, OrderUpTo: 30}, 10, 0, 0},
		{"echelon_uses_eip", &EchelonBaseStockPolicy{Level: 40}, 100, 25, 15},
		{"fixed_quantity", &FixedQuantityPolicy{Quantity: 4}, -100, -100, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.OrderQuantity(tt.ip, tt.eip); got != tt.expected {
				t.Errorf("OrderQuantity(%g, %g) = %g, want %g", tt.ip, tt.eip, got, tt.expected)
			}
		})
	}
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(BaseStock, 10, 0, 0, 0)
	if err != nil {
		t.Fatalf("NewPolicy failed: %v", err)
	}
	if level, ok := BaseStockLevelOf(p); !ok || level != 10 {
		t.Errorf("Expected base-stock level 10, got %g (%v)", level, ok)
	}

	if _, err := NewPolicy(MinMax, 0, 10, 0, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for S < s, got %v", err)
	}
	if _, err := NewPolicy("XX", 0, 0, 0, 0); err == nil {
		t.Error("Expected unknown policy type to fail")
	}

	rq, _ := NewPolicy(ReorderPointQuantity, 0, 1, 2, 0)
	if _, ok := BaseStockLevelOf(rq); ok {
		t.Error("Expected rQ policy to have no base-stock level")
	}
}

func TestPolicyOwner_Matches(t *testing.T) {
	var owner PolicyOwner
	if !owner.Matches(3, nil) {
		t.Error("Expected unbound owner to match anything")
	}

	product := ProductID(4)
	owner.BindOwner(3, &product)
	other := ProductID(5)

	if !owner.Matches(3, &product) {
		t.Error("Expected owner to match its own node and product")
	}
	if owner.Matches(2, &product) {
		t.Error("Expected node mismatch")
	}
	if owner.Matches(3, &other) {
		t.Error("Expected product mismatch")
	}
}

package entities

import (
	"fmt"
	"math"
)

// PolicyType tags the inventory policy variant
type PolicyType string

const (
	BaseStock            PolicyType = "BS"
	ReorderPointQuantity PolicyType = "rQ"
	MinMax               PolicyType = "sS"
	EchelonBaseStock     PolicyType = "EBS"
	FixedQuantity        PolicyType = "FQ"
)

// Policy computes how much to order given the current inventory position.
// echelonPosition is only meaningful for echelon policies.
type Policy interface {
	Type() PolicyType
	OrderQuantity(inventoryPosition, echelonPosition float64) float64
	Validate() error
	Owner() PolicyOwner
	BindOwner(node NodeID, product *ProductID)
}

// PolicyOwner is the back-reference from a policy to the node (and optionally
// product) it is attached to, kept as ids.
type PolicyOwner struct {
	NodeID    *NodeID
	ProductID *ProductID
}

// Owner returns the recorded owner
func (o *PolicyOwner) Owner() PolicyOwner {
	return *o
}

// BindOwner records the node and product the policy belongs to
func (o *PolicyOwner) BindOwner(node NodeID, product *ProductID) {
	n := node
	o.NodeID = &n
	if product != nil {
		p := *product
		o.ProductID = &p
	} else {
		o.ProductID = nil
	}
}

// Matches reports whether the owner is compatible with (node, product).
// An unbound owner matches anything.
func (o PolicyOwner) Matches(node NodeID, product *ProductID) bool {
	if o.NodeID != nil && *o.NodeID != node {
		return false
	}
	if o.ProductID != nil && product != nil && *o.ProductID != *product {
		return false
	}
	return true
}

// BaseStockPolicy orders up to a base-stock level
type BaseStockPolicy struct {
	PolicyOwner
	Level float64
}

func (p *BaseStockPolicy) Type() PolicyType { return BaseStock }

func (p *BaseStockPolicy) OrderQuantity(ip, _ float64) float64 {
	return math.Max(0, p.Level-ip)
}

func (p *BaseStockPolicy) Validate() error { return nil }

// BaseStockLevel returns S
func (p *BaseStockPolicy) BaseStockLevel() float64 { return p.Level }

// RQPolicy orders a fixed quantity Q whenever the position is at or below r
type RQPolicy struct {
	PolicyOwner
	ReorderPoint float64
	Quantity     float64
}

func (p *RQPolicy) Type() PolicyType { return ReorderPointQuantity }

func (p *RQPolicy) OrderQuantity(ip, _ float64) float64 {
	if ip <= p.ReorderPoint {
		return p.Quantity
	}
	return 0
}

func (p *RQPolicy) Validate() error {
	if p.Quantity < 0 {
		return invalidParam("order quantity cannot be negative, got %g", p.Quantity)
	}
	return nil
}

// SSPolicy orders up to S whenever the position is at or below s
type SSPolicy struct {
	PolicyOwner
	ReorderPoint float64
	OrderUpTo    float64
}

func (p *SSPolicy) Type() PolicyType { return MinMax }

func (p *SSPolicy) OrderQuantity(ip, _ float64) float64 {
	if ip <= p.ReorderPoint {
		return math.Max(0, p.OrderUpTo-ip)
	}
	return 0
}

func (p *SSPolicy) Validate() error {
	if p.OrderUpTo < p.ReorderPoint {
		return invalidParam("order-up-to level %g is below reorder point %g", p.OrderUpTo, p.ReorderPoint)
	}
	return nil
}

// EchelonBaseStockPolicy orders up to an echelon base-stock level against the
// echelon inventory position
type EchelonBaseStockPolicy struct {
	PolicyOwner
	Level float64
}

func (p *EchelonBaseStockPolicy) Type() PolicyType { return EchelonBaseStock }

func (p *EchelonBaseStockPolicy) OrderQuantity(_, eip float64) float64 {
	return math.Max(0, p.Level-eip)
}

func (p *EchelonBaseStockPolicy) Validate() error { return nil }

// BaseStockLevel returns the echelon S
func (p *EchelonBaseStockPolicy) BaseStockLevel() float64 { return p.Level }

// FixedQuantityPolicy orders the same quantity every period
type FixedQuantityPolicy struct {
	PolicyOwner
	Quantity float64
}

func (p *FixedQuantityPolicy) Type() PolicyType { return FixedQuantity }

func (p *FixedQuantityPolicy) OrderQuantity(_, _ float64) float64 {
	return math.Max(0, p.Quantity)
}

func (p *FixedQuantityPolicy) Validate() error {
	if p.Quantity < 0 {
		return invalidParam("fixed order quantity cannot be negative, got %g", p.Quantity)
	}
	return nil
}

// Verify interface compliance
var (
	_ Policy = (*BaseStockPolicy)(nil)
	_ Policy = (*RQPolicy)(nil)
	_ Policy = (*SSPolicy)(nil)
	_ Policy = (*EchelonBaseStockPolicy)(nil)
	_ Policy = (*FixedQuantityPolicy)(nil)
)

// NewPolicy builds a policy variant from its type tag and parameters.
// Parameters not used by the variant are ignored.
func NewPolicy(typ PolicyType, baseStockLevel, reorderPoint, orderQuantity, orderUpTo float64) (Policy, error) {
	var p Policy
	switch typ {
	case BaseStock:
		p = &BaseStockPolicy{Level: baseStockLevel}
	case ReorderPointQuantity:
		p = &RQPolicy{ReorderPoint: reorderPoint, Quantity: orderQuantity}
	case MinMax:
		p = &SSPolicy{ReorderPoint: reorderPoint, OrderUpTo: orderUpTo}
	case EchelonBaseStock:
		p = &EchelonBaseStockPolicy{Level: baseStockLevel}
	case FixedQuantity:
		p = &FixedQuantityPolicy{Quantity: orderQuantity}
	default:
		return nil, fmt.Errorf("unknown policy type %q", typ)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// BaseStockLevelOf returns the base-stock level of base-stock style policies
func BaseStockLevelOf(p Policy) (float64, bool) {
	if bs, ok := p.(interface{ BaseStockLevel() float64 }); ok {
		return bs.BaseStockLevel(), true
	}
	return 0, false
}

package entities

// CostFunc computes a period cost from an inventory level
type CostFunc func(level float64) float64

// Attributes holds the parameters that may be set at node level, product level,
// or node-product level. Nil fields are unset.
type Attributes struct {
	HoldingCost          *float64
	StockoutCost         *float64
	InTransitHoldingCost *float64

	// HoldingCostFunc and StockoutCostFunc replace the linear rates when set.
	// HoldingCostFunc receives max(IL,0), StockoutCostFunc receives max(-IL,0).
	HoldingCostFunc  CostFunc
	StockoutCostFunc CostFunc

	Demand *DemandSource
	Policy Policy

	InitialInventoryLevel *float64
	InitialOrders         *float64
	InitialShipments      *float64
	OrderCapacity         *float64
}

// AttributeName names a resolvable attribute
type AttributeName string

const (
	AttrHoldingCost           AttributeName = "holding_cost"
	AttrStockoutCost          AttributeName = "stockout_cost"
	AttrInTransitHoldingCost  AttributeName = "in_transit_holding_cost"
	AttrHoldingCostFunc       AttributeName = "holding_cost_function"
	AttrStockoutCostFunc      AttributeName = "stockout_cost_function"
	AttrDemandSource          AttributeName = "demand_source"
	AttrInventoryPolicy       AttributeName = "inventory_policy"
	AttrInitialInventoryLevel AttributeName = "initial_inventory_level"
	AttrInitialOrders         AttributeName = "initial_orders"
	AttrInitialShipments      AttributeName = "initial_shipments"
	AttrOrderCapacity         AttributeName = "order_capacity"
)

// resolve looks an attribute up for (n, p): node-product map first, then the
// product's own attributes, then the node's. A nil product is replaced by the
// node's sole product when it handles exactly one.
func resolve[T any](n *Node, p *Product, get func(*Attributes) (T, bool)) (T, bool) {
	if p == nil {
		p = n.soleProduct()
	}
	if p != nil {
		if a := n.ProductAttributes[p.ID]; a != nil {
			if v, ok := get(a); ok {
				return v, true
			}
		}
		if v, ok := get(&p.Attributes); ok {
			return v, true
		}
	}
	return get(&n.Attributes)
}

func floatField(field func(*Attributes) *float64) func(*Attributes) (float64, bool) {
	return func(a *Attributes) (float64, bool) {
		if v := field(a); v != nil {
			return *v, true
		}
		return 0, false
	}
}

// HoldingCost resolves the per-unit holding cost rate
func (n *Node) HoldingCost(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.HoldingCost }))
}

// StockoutCost resolves the per-unit stockout cost rate
func (n *Node) StockoutCost(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.StockoutCost }))
}

// InTransitHoldingCost resolves the rate charged on units in transit to n.
// Falls back to the holding cost rate when unset.
func (n *Node) InTransitHoldingCost(p *Product) (float64, bool) {
	if v, ok := resolve(n, p, floatField(func(a *Attributes) *float64 { return a.InTransitHoldingCost })); ok {
		return v, true
	}
	return n.HoldingCost(p)
}

// HoldingCostFunc resolves a custom holding cost function
func (n *Node) HoldingCostFunc(p *Product) (CostFunc, bool) {
	return resolve(n, p, func(a *Attributes) (CostFunc, bool) { return a.HoldingCostFunc, a.HoldingCostFunc != nil })
}

// StockoutCostFunc resolves a custom stockout cost function
func (n *Node) StockoutCostFunc(p *Product) (CostFunc, bool) {
	return resolve(n, p, func(a *Attributes) (CostFunc, bool) { return a.StockoutCostFunc, a.StockoutCostFunc != nil })
}

// DemandSource resolves the external demand source
func (n *Node) DemandSource(p *Product) (*DemandSource, bool) {
	return resolve(n, p, func(a *Attributes) (*DemandSource, bool) { return a.Demand, a.Demand != nil })
}

// InventoryPolicy resolves the inventory policy
func (n *Node) InventoryPolicy(p *Product) (Policy, bool) {
	return resolve(n, p, func(a *Attributes) (Policy, bool) { return a.Policy, a.Policy != nil })
}

// InitialInventoryLevel resolves an explicit initial inventory level
func (n *Node) InitialInventoryLevel(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.InitialInventoryLevel }))
}

// InitialOrders resolves the per-period quantity already in the order pipeline at period 0
func (n *Node) InitialOrders(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.InitialOrders }))
}

// InitialShipments resolves the per-period quantity already in the shipment pipeline at period 0
func (n *Node) InitialShipments(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.InitialShipments }))
}

// OrderCapacity resolves the per-period cap on order quantity
func (n *Node) OrderCapacity(p *Product) (float64, bool) {
	return resolve(n, p, floatField(func(a *Attributes) *float64 { return a.OrderCapacity }))
}

// Attribute resolves an attribute by name. Callers decide whether a missing
// attribute is fatal.
func (n *Node) Attribute(name AttributeName, p *Product) (any, bool) {
	switch name {
	case AttrHoldingCost:
		return n.HoldingCost(p)
	case AttrStockoutCost:
		return n.StockoutCost(p)
	case AttrInTransitHoldingCost:
		return n.InTransitHoldingCost(p)
	case AttrHoldingCostFunc:
		return n.HoldingCostFunc(p)
	case AttrStockoutCostFunc:
		return n.StockoutCostFunc(p)
	case AttrDemandSource:
		return n.DemandSource(p)
	case AttrInventoryPolicy:
		return n.InventoryPolicy(p)
	case AttrInitialInventoryLevel:
		return n.InitialInventoryLevel(p)
	case AttrInitialOrders:
		return n.InitialOrders(p)
	case AttrInitialShipments:
		return n.InitialShipments(p)
	case AttrOrderCapacity:
		return n.OrderCapacity(p)
	default:
		return nil, false
	}
}

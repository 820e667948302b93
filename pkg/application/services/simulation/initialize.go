package simulation

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
)

// initialize attaches the period-0 record to every node: initial inventory
// levels first, then the initial order and shipment pipelines, which write
// into predecessors' records.
func (s *Simulator) initialize() {
	levels := s.initialLevels()
	for _, id := range s.topological {
		node := s.node(id)
		state := entities.NewNodeStateVars(id, 0)
		node.History = []*entities.NodeStateVars{state}

		for _, p := range node.Products() {
			level := levels[OrderKey{Node: id, Product: p.ID}]
			if level >= 0 {
				state.OnHand[p.ID] = level
			} else {
				state.SetBackorder(p.ID, entities.ExternalCustomer, -level)
				state.BackorderBaseline[p.ID] = -level
			}
			state.InventoryLevel[p.ID] = level
			state.FillRate[p.ID] = 1
		}
	}

	var flows map[OrderKey]float64
	if s.steadyStatePipelines {
		flows = s.steadyStateFlows()
	}

	for _, id := range s.topological {
		node := s.node(id)
		for _, fg := range node.Products() {
			key := OrderKey{Node: id, Product: fg.ID}
			orders, ok := node.InitialOrders(fg)
			if !ok {
				orders = flows[key]
			}
			shipments, ok := node.InitialShipments(fg)
			if !ok {
				shipments = flows[key]
			}
			if orders == 0 && shipments == 0 {
				continue
			}
			s.fillPipelines(node, fg, orders, shipments)
		}
	}
}

// initialLevels resolves the starting inventory level of every node-product,
// downstream nodes first so that echelon stages can net out what their
// descendants already hold
func (s *Simulator) initialLevels() map[OrderKey]float64 {
	levels := make(map[OrderKey]float64)
	held := make(map[entities.NodeID]float64)
	for _, id := range s.reverse {
		node := s.node(id)
		downstream := 0.0
		for _, d := range s.net.Descendants(id) {
			downstream += held[d]
		}
		for _, p := range node.Products() {
			level := initialInventoryLevel(node, p, downstream)
			levels[OrderKey{Node: id, Product: p.ID}] = level
			held[id] += level
		}
	}
	return levels
}

// initialInventoryLevel returns the configured level, else the base-stock
// level of base-stock style policies, else 0. An echelon level covers the
// downstream stock too, so only the remainder is held locally.
func initialInventoryLevel(node *entities.Node, p *entities.Product, downstream float64) float64 {
	if level, ok := node.InitialInventoryLevel(p); ok {
		return level
	}
	policy, ok := node.InventoryPolicy(p)
	if !ok {
		return 0
	}
	level, ok := entities.BaseStockLevelOf(policy)
	if !ok {
		return 0
	}
	if policy.Type() == entities.EchelonBaseStock {
		return max(level-downstream, 0)
	}
	return level
}

// fillPipelines puts orders (finished-good units per period) into the first
// L^o order-pipeline slots at each predecessor and shipments into the first
// L^s shipment-pipeline slots at node. The external supplier has a single
// pipeline of L^o+L^s slots: shipments first, then orders.
func (s *Simulator) fillPipelines(node *entities.Node, fg *entities.Product, orders, shipments float64) {
	state := node.History[0]
	olt, slt := node.OrderLeadTime, node.ShipmentLeadTime

	for _, o := range s.resolver.RawMaterialOrders(node.ID, fg.ID, 1) {
		if o.Predecessor == entities.ExternalSupplier {
			for k := 0; k < slt; k++ {
				state.AddToShipmentPipeline(o.Predecessor, o.RawMaterial, k, shipments*o.Quantity)
			}
			for k := slt; k < slt+olt; k++ {
				state.AddToShipmentPipeline(o.Predecessor, o.RawMaterial, k, orders*o.Quantity)
			}
		} else {
			pred := s.node(o.Predecessor).History[0]
			for k := 0; k < olt; k++ {
				pred.AddToOrderPipeline(o.RawMaterial, node.ID, k, orders*o.Quantity)
			}
			for k := 0; k < slt; k++ {
				state.AddToShipmentPipeline(o.Predecessor, o.RawMaterial, k, shipments*o.Quantity)
			}
		}
		state.AddOnOrder(o.Predecessor, o.RawMaterial, (float64(olt)*orders+float64(slt)*shipments)*o.Quantity)
	}
	state.PendingFinishedGoods[fg.ID] += float64(olt)*orders + float64(slt)*shipments
}

// steadyStateFlows returns the mean per-period flow of every node-product:
// its own mean external demand plus what its successors draw from it.
func (s *Simulator) steadyStateFlows() map[OrderKey]float64 {
	flows := make(map[OrderKey]float64)
	for _, id := range s.reverse {
		node := s.node(id)
		for _, p := range node.Products() {
			flow := 0.0
			if s.net.HasExternalCustomer(node, p) {
				if ds, ok := node.DemandSource(p); ok && ds.Type != entities.DemandNone {
					flow += ds.Mean()
				}
			}
			for _, succID := range s.net.Successors(id) {
				succ := s.node(succID)
				for _, fg := range succ.Products() {
					downstream := flows[OrderKey{Node: succID, Product: fg.ID}]
					if downstream == 0 {
						continue
					}
					for _, o := range s.resolver.RawMaterialOrders(succID, fg.ID, downstream) {
						if o.Predecessor == id && o.RawMaterial == p.ID {
							flow += o.Quantity
						}
					}
				}
			}
			flows[OrderKey{Node: id, Product: p.ID}] = flow
		}
	}
	return flows
}

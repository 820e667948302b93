package simulation

import (
	"fmt"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/services"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
	"github.com/vsinha/invsim/pkg/infrastructure/logging"
)

// receiveOrders pops the orders due this period from each successor and
// draws external demand
func (s *Simulator) receiveOrders(node *entities.Node, state *entities.NodeStateVars, t int) error {
	for _, p := range node.Products() {
		for _, succ := range s.net.Successors(node.ID) {
			if due := state.OrderPipelineDue(p.ID, succ); due != 0 {
				state.AddInboundOrder(p.ID, succ, due)
			}
		}

		if s.net.HasExternalCustomer(node, p) {
			demand := 0.0
			if ds, ok := node.DemandSource(p); ok && ds.Type != entities.DemandNone {
				d, err := ds.GenerateDemand(t, s.rng)
				if err != nil {
					pid := p.ID
					return &entities.ConfigError{NodeID: node.ID, ProductID: &pid, Attribute: "demand_source", Err: err}
				}
				demand = d
			}
			state.AddInboundOrder(p.ID, entities.ExternalCustomer, demand)
		}

		state.DemandCumulative[p.ID] += state.TotalInboundOrder(p.ID)
	}
	return nil
}

// placeOrders decides each finished-good order and translates it into raw
// material orders through the network bill of materials
func (s *Simulator) placeOrders(node *entities.Node, state *entities.NodeStateVars, t int) error {
	for _, p := range node.Products() {
		policy, ok := node.InventoryPolicy(p)
		if !ok {
			pid := p.ID
			return &entities.ConfigError{NodeID: node.ID, ProductID: &pid, Attribute: "inventory_policy", Err: entities.ErrMissingPolicy}
		}

		ip := state.InventoryPosition(p.ID)
		eip := ip
		if policy.Type() == entities.EchelonBaseStock {
			eip = s.echelonPosition(node, p, t)
		}

		qty := policy.OrderQuantity(ip, eip)
		if override, ok := s.overrides[OrderKey{Node: node.ID, Product: p.ID}]; ok {
			qty = override
		}
		qty = max(qty, 0)
		if capacity, ok := node.OrderCapacity(p); ok {
			qty = min(qty, capacity)
		}
		if node.Disruption.Blocks(entities.OrderPausing) {
			qty = 0
		}

		state.FinishedGoodOrder[p.ID] = qty
		if qty == 0 {
			continue
		}
		state.PendingFinishedGoods[p.ID] += qty

		for _, o := range s.resolver.RawMaterialOrders(node.ID, p.ID, qty) {
			if err := s.sendOrder(node, state, o, t); err != nil {
				return err
			}
		}
		if s.metrics != nil {
			s.metrics.RecordOrder(int(node.ID), qty)
		}
		logging.Trace(s.logger, "order placed",
			"period", t, "node", node.ID, "product", p.ID, "ip", ip, "quantity", qty)
	}
	return nil
}

// sendOrder queues a raw material order at the supplier. The external
// supplier always has stock, so its orders go straight into the node's own
// shipment pipeline, arriving after both lead times.
func (s *Simulator) sendOrder(node *entities.Node, state *entities.NodeStateVars, o services.SupplierOrder, t int) error {
	if o.Quantity == 0 {
		return nil
	}

	if o.Predecessor == entities.ExternalSupplier {
		state.AddToShipmentPipeline(entities.ExternalSupplier, o.RawMaterial, node.OrderLeadTime+node.ShipmentLeadTime, o.Quantity)
	} else {
		pred, ok := s.net.Node(o.Predecessor)
		if !ok {
			return fmt.Errorf("predecessor %s of node %s not found", o.Predecessor, node.ID)
		}
		pred.History[t].AddToOrderPipeline(o.RawMaterial, node.ID, node.OrderLeadTime, o.Quantity)
	}
	state.PlaceOrder(o.Predecessor, o.RawMaterial, o.Quantity)

	s.publish(events.OrderPlacedEvent, events.OrderPlaced{
		Period:      t,
		NodeID:      node.ID,
		Supplier:    o.Predecessor,
		RawMaterial: o.RawMaterial,
		Quantity:    o.Quantity,
	})
	return nil
}

// echelonPosition is the node's own position net of external demand plus
// the inventory held at or in transit to every downstream node
func (s *Simulator) echelonPosition(node *entities.Node, p *entities.Product, t int) float64 {
	state := node.History[t]
	eip := state.OnHand[p.ID] -
		state.Backorder(p.ID, entities.ExternalCustomer) -
		state.InboundOrder[p.ID][entities.ExternalCustomer] +
		state.PendingFinishedGoods[p.ID]

	for _, id := range s.net.Descendants(node.ID) {
		eip += s.node(id).History[t].EchelonContribution(true)
	}
	return eip
}

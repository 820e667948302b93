package simulation

import (
	"sort"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/services"
)

// receiveShipments takes delivery of the pipeline slot due this period.
// Transit-pausing leaves the pipeline untouched; receipt-pausing parks the
// arrivals until the node is back up, when they are received in full.
func (s *Simulator) receiveShipments(node *entities.Node, state *entities.NodeStateVars) {
	if node.Disruption.Blocks(entities.TransitPausing) {
		return
	}
	receiptPaused := node.Disruption.Blocks(entities.ReceiptPausing)

	for _, pred := range sortedNodes(state.InboundShipmentPipeline) {
		for _, rm := range sortedProducts(state.InboundShipmentPipeline[pred]) {
			due := state.ShipmentPipelineDue(pred, rm)
			if due == 0 {
				continue
			}
			state.ClearShipmentDue(pred, rm)
			if receiptPaused {
				state.HoldInbound(pred, rm, due)
			} else {
				state.ReceiveShipment(pred, rm, due)
			}
		}
	}

	if receiptPaused {
		return
	}
	for _, pred := range sortedNodes(state.InboundDisruptedItems) {
		for _, rm := range sortedProducts(state.InboundDisruptedItems[pred]) {
			if held := state.ReleaseInbound(pred, rm); held != 0 {
				state.ReceiveShipment(pred, rm, held)
			}
		}
	}
}

// produce converts pooled raw materials into pending finished goods, in
// ascending product order
func (s *Simulator) produce(node *entities.Node, state *entities.NodeStateVars) {
	for _, p := range node.Products() {
		reqs := s.resolver.RawMaterialRequirements(node.ID, p.ID)
		produced := services.Produce(state.PendingFinishedGoods[p.ID], reqs, state.RawMaterialInventory)
		if produced == 0 {
			continue
		}
		state.Production[p.ID] = produced
		state.OnHand[p.ID] += produced
		state.PendingFinishedGoods[p.ID] = clampZero(state.PendingFinishedGoods[p.ID] - produced)
	}
}

// ship fills backorders plus this period's orders, external customer first and
// then successors in ascending id. Shipments to a shipment-paused successor
// are held at this node and sent with the first shipment after it recovers.
func (s *Simulator) ship(node *entities.Node, state *entities.NodeStateVars, t int) {
	for _, p := range node.Products() {
		available := state.OnHand[p.ID]
		met := 0.0

		for _, to := range s.recipients(node, p, state) {
			previous := state.Backorder(p.ID, to)
			ordered := state.InboundOrder[p.ID][to]
			owed := previous + ordered
			sent := min(available, owed)
			available -= sent

			if owed != 0 || previous != 0 {
				state.SetBackorder(p.ID, to, clampZero(owed-sent))
			}
			met += min(ordered, max(sent-previous, 0))
			state.ShippedCumulative[p.ID] += sent

			if to == entities.ExternalCustomer {
				if sent > 0 {
					state.RecordOutbound(p.ID, to, sent)
				}
				continue
			}

			succ := s.node(to)
			if succ.Disruption.Blocks(entities.ShipmentPausing) {
				if sent > 0 {
					state.HoldOutbound(p.ID, to, sent)
				}
				continue
			}
			total := sent + state.ReleaseOutbound(p.ID, to)
			if total > 0 {
				succ.History[t].AddToShipmentPipeline(node.ID, p.ID, succ.ShipmentLeadTime, total)
				state.RecordOutbound(p.ID, to, total)
			}
		}

		state.OnHand[p.ID] = clampZero(available)
		state.DemandMetFromStock[p.ID] = met
		state.DemandMetFromStockCumulative[p.ID] += met
	}
}

// recipients lists who may be owed product p: the external customer first,
// then successors ascending
func (s *Simulator) recipients(node *entities.Node, p *entities.Product, state *entities.NodeStateVars) []entities.NodeID {
	succ := s.net.Successors(node.ID)
	out := make([]entities.NodeID, 0, len(succ)+1)
	if s.net.HasExternalCustomer(node, p) || state.Backorder(p.ID, entities.ExternalCustomer) > 0 {
		out = append(out, entities.ExternalCustomer)
	}
	return append(out, succ...)
}

func clampZero(v float64) float64 {
	if v < tolerance && v > -tolerance {
		return 0
	}
	return v
}

func sortedNodes[V any](m map[entities.NodeID]V) []entities.NodeID {
	keys := make([]entities.NodeID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedProducts[V any](m map[entities.ProductID]V) []entities.ProductID {
	keys := make([]entities.ProductID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

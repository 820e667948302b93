package simulation

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
)

// computeCosts settles inventory levels, fill rates and the period's costs
// for one node and returns its total cost
func (s *Simulator) computeCosts(node *entities.Node, state *entities.NodeStateVars, t int) float64 {
	var holding, stockout, inTransit float64

	for _, p := range node.Products() {
		level := state.CurrentInventoryLevel(p.ID)
		state.InventoryLevel[p.ID] = level
		state.UpdateFillRate(p.ID)

		holding += holdingCost(node, p, max(level, 0))
		stockout += stockoutCost(node, p, max(-level, 0))

		for _, id := range s.net.Successors(node.ID) {
			succ := s.node(id)
			units := succ.History[t].InTransitFrom(node.ID, p.ID)
			if units == 0 {
				continue
			}
			rate, _ := succ.InTransitHoldingCost(p)
			inTransit += rate * units
		}

		if backorders := state.TotalBackorders(p.ID); backorders > tolerance {
			if s.metrics != nil {
				s.metrics.RecordStockout(int(node.ID))
			}
			s.publish(events.StockoutOccurredEvent, events.StockoutOccurred{
				Period:     t,
				NodeID:     node.ID,
				ProductID:  p.ID,
				Backorders: backorders,
			})
		}
		if s.metrics != nil {
			s.metrics.SetInventoryLevel(int(node.ID), int(p.ID), level)
		}
	}

	state.HoldingCostIncurred = holding
	state.StockoutCostIncurred = stockout
	state.InTransitHoldingCostIncurred = inTransit
	state.TotalCostIncurred = holding + stockout + inTransit

	if s.metrics != nil {
		s.metrics.RecordCosts(holding, stockout, inTransit)
	}
	return state.TotalCostIncurred
}

func holdingCost(node *entities.Node, p *entities.Product, onHand float64) float64 {
	if fn, ok := node.HoldingCostFunc(p); ok && fn != nil {
		return fn(onHand)
	}
	rate, _ := node.HoldingCost(p)
	return rate * onHand
}

func stockoutCost(node *entities.Node, p *entities.Product, backorders float64) float64 {
	if fn, ok := node.StockoutCostFunc(p); ok && fn != nil {
		return fn(backorders)
	}
	rate, _ := node.StockoutCost(p)
	return rate * backorders
}

package simulation

import (
	"github.com/vsinha/invsim/pkg/application/dto"
)

// Result summarizes the completed periods
func (s *Simulator) Result() *dto.SimulationResult {
	result := &dto.SimulationResult{
		RunID:      s.runID,
		Seed:       s.seed,
		NumPeriods: s.period,
		TotalCost:  s.totalCost,
		Nodes:      make([]dto.NodeSummary, 0, len(s.topological)),
	}

	for _, id := range s.net.NodeIDs() {
		node := s.node(id)
		history := node.History
		if len(history) > s.period {
			history = history[:s.period]
		}

		summary := dto.NodeSummary{NodeID: id, Name: node.Name}
		for _, state := range history {
			summary.HoldingCost += state.HoldingCostIncurred
			summary.StockoutCost += state.StockoutCostIncurred
			summary.InTransitCost += state.InTransitHoldingCostIncurred
			summary.TotalCost += state.TotalCostIncurred
			if state.Disrupted {
				summary.DisruptedPeriods++
			}
		}

		for _, p := range node.Products() {
			ps := dto.ProductSummary{ProductID: p.ID, FillRate: 1}
			sumLevel := 0.0
			for _, state := range history {
				level := state.InventoryLevel[p.ID]
				sumLevel += level
				if state.TotalBackorders(p.ID) > tolerance {
					ps.StockoutPeriods++
				}
				ps.TotalOrdered += state.FinishedGoodOrder[p.ID]
			}
			if n := len(history); n > 0 {
				last := history[n-1]
				ps.TotalDemand = last.DemandCumulative[p.ID]
				ps.FillRate = last.FillRate[p.ID]
				ps.EndingInventoryLevel = last.InventoryLevel[p.ID]
				ps.MeanInventoryLevel = sumLevel / float64(n)
			}
			summary.Products = append(summary.Products, ps)
		}
		result.Nodes = append(result.Nodes, summary)
	}
	return result
}

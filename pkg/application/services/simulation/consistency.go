package simulation

import (
	"fmt"
	"math"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// checkTolerance is relative to the magnitude of the quantities compared
const checkTolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= checkTolerance*max(1, math.Abs(a), math.Abs(b))
}

func negative(v float64) bool {
	return v < -checkTolerance*max(1, math.Abs(v))
}

// checkConsistency verifies the end-of-period invariants of one node. A
// failure is a simulator defect, never a problem with the input.
func checkConsistency(node *entities.Node, state *entities.NodeStateVars) error {
	fail := func(p entities.ProductID, check, format string, args ...any) error {
		return &entities.ConsistencyError{
			NodeID:    node.ID,
			ProductID: p,
			Period:    state.Period,
			Check:     check,
			Detail:    fmt.Sprintf(format, args...),
		}
	}

	for _, p := range node.Products() {
		id := p.ID
		onHand := state.OnHand[id]
		backorders := state.TotalBackorders(id)
		level := state.InventoryLevel[id]

		if !near(level, onHand-backorders) {
			return fail(id, "inventory_level", "IL %g != on hand %g - backorders %g", level, onHand, backorders)
		}
		if !near(backorders, max(0, -level)) {
			return fail(id, "backorders", "backorders %g != max(0, -IL) with IL %g", backorders, level)
		}
		unmet := state.BackorderBaseline[id] + state.DemandCumulative[id] - state.ShippedCumulative[id]
		if !near(backorders, unmet) {
			return fail(id, "cumulative_backorders", "backorders %g != unmet cumulative demand %g", backorders, unmet)
		}
		if negative(onHand) {
			return fail(id, "on_hand", "negative on hand %g", onHand)
		}
		if negative(state.PendingFinishedGoods[id]) {
			return fail(id, "pending_production", "negative pending production %g", state.PendingFinishedGoods[id])
		}
		if fr := state.FillRate[id]; fr < 0 || fr > 1 {
			return fail(id, "fill_rate", "fill rate %g outside [0, 1]", fr)
		}
	}

	for rm, qty := range state.RawMaterialInventory {
		if negative(qty) {
			return fail(rm, "raw_material_inventory", "negative raw material inventory %g", qty)
		}
	}
	for _, byRM := range state.InboundShipmentPipeline {
		for rm, pipe := range byRM {
			for k, v := range pipe {
				if negative(v) {
					return fail(rm, "shipment_pipeline", "negative shipment pipeline slot %d: %g", k, v)
				}
			}
		}
	}
	for p, bySucc := range state.InboundOrderPipeline {
		for _, pipe := range bySucc {
			for k, v := range pipe {
				if negative(v) {
					return fail(p, "order_pipeline", "negative order pipeline slot %d: %g", k, v)
				}
			}
		}
	}
	return nil
}

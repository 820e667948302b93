package events

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
)

const (
	SimulationStartedEvent   = "simulation.started"
	SimulationCompletedEvent = "simulation.completed"
	PeriodCompletedEvent     = "period.completed"

	DisruptionStartedEvent = "disruption.started"
	DisruptionEndedEvent   = "disruption.ended"

	OrderPlacedEvent      = "order.placed"
	StockoutOccurredEvent = "stockout.occurred"
)

// AllEventTypes lists every event the simulator emits
var AllEventTypes = []string{
	SimulationStartedEvent,
	SimulationCompletedEvent,
	PeriodCompletedEvent,
	DisruptionStartedEvent,
	DisruptionEndedEvent,
	OrderPlacedEvent,
	StockoutOccurredEvent,
}

type SimulationStarted struct {
	RunID      string `json:"run_id"`
	Seed       uint64 `json:"seed"`
	NumPeriods int    `json:"num_periods"`
	NumNodes   int    `json:"num_nodes"`
}

type SimulationCompleted struct {
	RunID     string  `json:"run_id"`
	Periods   int     `json:"periods"`
	TotalCost float64 `json:"total_cost"`
}

type PeriodCompleted struct {
	Period     int     `json:"period"`
	PeriodCost float64 `json:"period_cost"`
}

type DisruptionStarted struct {
	Period int                     `json:"period"`
	NodeID entities.NodeID         `json:"node_id"`
	Type   entities.DisruptionType `json:"type"`
}

type DisruptionEnded struct {
	Period int                     `json:"period"`
	NodeID entities.NodeID         `json:"node_id"`
	Type   entities.DisruptionType `json:"type"`
}

type OrderPlaced struct {
	Period      int                `json:"period"`
	NodeID      entities.NodeID    `json:"node_id"`
	Supplier    entities.NodeID    `json:"supplier"`
	RawMaterial entities.ProductID `json:"raw_material"`
	Quantity    float64            `json:"quantity"`
}

type StockoutOccurred struct {
	Period     int                `json:"period"`
	NodeID     entities.NodeID    `json:"node_id"`
	ProductID  entities.ProductID `json:"product_id"`
	Backorders float64            `json:"backorders"`
}

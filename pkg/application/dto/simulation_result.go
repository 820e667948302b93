package dto

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
)

// SimulationResult is the summary of one completed run. The full per-period
// state stays attached to the network's nodes as History.
type SimulationResult struct {
	RunID      string
	Seed       uint64
	NumPeriods int
	TotalCost  float64
	Nodes      []NodeSummary
}

// NodeSummary aggregates one node's history
type NodeSummary struct {
	NodeID           entities.NodeID
	Name             string
	HoldingCost      float64
	StockoutCost     float64
	InTransitCost    float64
	TotalCost        float64
	DisruptedPeriods int
	Products         []ProductSummary
}

// ProductSummary aggregates one node-product history
type ProductSummary struct {
	ProductID            entities.ProductID
	TotalDemand          float64
	FillRate             float64
	MeanInventoryLevel   float64
	EndingInventoryLevel float64
	StockoutPeriods      int
	TotalOrdered         float64
}

// TrialsResult aggregates a multi-trial experiment
type TrialsResult struct {
	RunID      string
	NumTrials  int
	NumPeriods int
	BaseSeed   uint64
	MeanCost   float64
	StdDevCost float64
	MinCost    float64
	MaxCost    float64
	Trials     []*entities.TrialResult
}

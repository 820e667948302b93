package entities

// TrialResult summarizes one independent run of a multi-trial experiment
type TrialResult struct {
	RunID     string
	Trial     int
	Seed      uint64
	TotalCost float64
	// FillRates holds the final cumulative fill rate of each node facing external demand
	FillRates map[NodeID]float64
}

// NewTrialResult creates a validated TrialResult
func NewTrialResult(runID string, trial int, seed uint64, totalCost float64) (*TrialResult, error) {
	if runID == "" {
		return nil, invalidParam("run id cannot be empty")
	}
	if trial < 0 {
		return nil, invalidParam("trial index cannot be negative, got %d", trial)
	}
	return &TrialResult{
		RunID:     runID,
		Trial:     trial,
		Seed:      seed,
		TotalCost: totalCost,
		FillRates: make(map[NodeID]float64),
	}, nil
}

package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/repositories"
)

// TrialRepository provides in-memory trial result storage. Safe for
// concurrent use by parallel trials.
type TrialRepository struct {
	mu     sync.RWMutex
	trials map[string][]*entities.TrialResult
}

// NewTrialRepository creates a new in-memory trial repository
func NewTrialRepository() *TrialRepository {
	return &TrialRepository{
		trials: make(map[string][]*entities.TrialResult),
	}
}

// Verify interface compliance
var _ repositories.TrialRepository = (*TrialRepository)(nil)

// SaveTrial stores a trial result; a trial index may be saved once per run
func (r *TrialRepository) SaveTrial(result *entities.TrialResult) error {
	if result == nil {
		return fmt.Errorf("trial result cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.trials[result.RunID] {
		if existing.Trial == result.Trial {
			return fmt.Errorf("trial %d already recorded for run %s", result.Trial, result.RunID)
		}
	}
	r.trials[result.RunID] = append(r.trials[result.RunID], result)
	return nil
}

// GetTrials returns the trials of a run ordered by trial index
func (r *TrialRepository) GetTrials(runID string) ([]*entities.TrialResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trials, exists := r.trials[runID]
	if !exists {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	out := append([]*entities.TrialResult(nil), trials...)
	sort.Slice(out, func(i, j int) bool { return out[i].Trial < out[j].Trial })
	return out, nil
}

// GetAllTrials returns every stored trial ordered by run id then trial index
func (r *TrialRepository) GetAllTrials() ([]*entities.TrialResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.TrialResult
	for _, trials := range r.trials {
		out = append(out, trials...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RunID != out[j].RunID {
			return out[i].RunID < out[j].RunID
		}
		return out[i].Trial < out[j].Trial
	})
	return out, nil
}

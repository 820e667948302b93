package repositories

import "github.com/vsinha/invsim/pkg/domain/entities"

// TrialRepository stores per-trial results of multi-trial experiments
type TrialRepository interface {
	SaveTrial(result *entities.TrialResult) error
	GetTrials(runID string) ([]*entities.TrialResult, error)
	GetAllTrials() ([]*entities.TrialResult, error)
}

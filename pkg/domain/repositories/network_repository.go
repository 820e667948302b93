package repositories

import "github.com/vsinha/invsim/pkg/domain/entities"

// NetworkRepository builds network instances. Every call returns a fresh
// network with no history, so each simulation or trial owns its state.
type NetworkRepository interface {
	LoadNetwork() (*entities.Network, error)
}

package memory

import (
	"fmt"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/repositories"
)

// NetworkRepository builds networks from an in-process constructor
type NetworkRepository struct {
	build func() (*entities.Network, error)
}

// NewNetworkRepository wraps a network constructor
func NewNetworkRepository(build func() (*entities.Network, error)) *NetworkRepository {
	return &NetworkRepository{build: build}
}

// Verify interface compliance
var _ repositories.NetworkRepository = (*NetworkRepository)(nil)

// LoadNetwork returns a fresh network
func (r *NetworkRepository) LoadNetwork() (*entities.Network, error) {
	if r.build == nil {
		return nil, fmt.Errorf("network constructor cannot be nil")
	}
	net, err := r.build()
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	return net, nil
}

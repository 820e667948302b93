package commands

import (
	"fmt"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/repositories"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/yamlfile"
)

// networkSource returns a repository yielding fresh networks from the instance
// file, with the demand series from demandFile installed when given
func networkSource(instance, demandFile string) (repositories.NetworkRepository, error) {
	repo, err := yamlfile.NewNetworkRepository(instance)
	if err != nil {
		return nil, err
	}
	if demandFile == "" {
		return repo, nil
	}

	series, err := csv.NewLoader().LoadDemandSeries(demandFile)
	if err != nil {
		return nil, err
	}
	return memory.NewNetworkRepository(func() (*entities.Network, error) {
		net, err := repo.LoadNetwork()
		if err != nil {
			return nil, err
		}
		if err := csv.ApplyDemandSeries(net, series); err != nil {
			return nil, fmt.Errorf("applying demand series %s: %w", demandFile, err)
		}
		return net, nil
	}), nil
}

package simulation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/invsim/pkg/application/dto"
	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/repositories"
)

// TrialOptions configures a multi-trial experiment
type TrialOptions struct {
	NumTrials  int
	NumPeriods int
	// Trial i runs with seed BaseSeed+i
	BaseSeed uint64
	// Parallelism bounds concurrent trials; 0 uses GOMAXPROCS
	Parallelism int
	RunID       string
	// Repository, when set, receives every trial result
	Repository repositories.TrialRepository
}

// RunTrials runs independent trials, each on a fresh network from networks.
// Trials share nothing but the options, so they may run concurrently; the
// outcome does not depend on Parallelism.
func RunTrials(ctx context.Context, networks repositories.NetworkRepository, opts TrialOptions, simOpts ...Option) (*dto.TrialsResult, error) {
	if opts.NumTrials < 1 {
		return nil, fmt.Errorf("%w: number of trials must be positive, got %d", entities.ErrInvalidParameter, opts.NumTrials)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	cfg := defaultSettings()
	for _, opt := range simOpts {
		opt(&cfg)
	}

	results := make([]*entities.TrialResult, opts.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := 0; i < opts.NumTrials; i++ {
		g.Go(func() error {
			result, err := runTrial(ctx, networks, opts, i, simOpts)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = result
			if cfg.metrics != nil {
				cfg.metrics.RecordTrial()
			}
			cfg.logger.Debug("trial completed", "trial", i, "seed", result.Seed, "total_cost", result.TotalCost)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Repository != nil {
		for _, r := range results {
			if err := opts.Repository.SaveTrial(r); err != nil {
				return nil, fmt.Errorf("failed to save trial %d: %w", r.Trial, err)
			}
		}
	}

	costs := make([]float64, len(results))
	for i, r := range results {
		costs[i] = r.TotalCost
	}
	mean, std := stat.MeanStdDev(costs, nil)
	if len(costs) < 2 {
		std = 0
	}

	return &dto.TrialsResult{
		RunID:      opts.RunID,
		NumTrials:  opts.NumTrials,
		NumPeriods: opts.NumPeriods,
		BaseSeed:   opts.BaseSeed,
		MeanCost:   mean,
		StdDevCost: std,
		MinCost:    floats.Min(costs),
		MaxCost:    floats.Max(costs),
		Trials:     results,
	}, nil
}

func runTrial(ctx context.Context, networks repositories.NetworkRepository, opts TrialOptions, i int, simOpts []Option) (*entities.TrialResult, error) {
	net, err := networks.LoadNetwork()
	if err != nil {
		return nil, err
	}

	seed := opts.BaseSeed + uint64(i)
	trialOpts := append([]Option{}, simOpts...)
	trialOpts = append(trialOpts,
		WithSeed(seed),
		WithRunID(fmt.Sprintf("%s/%d", opts.RunID, i)),
	)

	cost, err := Simulate(ctx, net, opts.NumPeriods, trialOpts...)
	if err != nil {
		return nil, err
	}

	result, err := entities.NewTrialResult(opts.RunID, i, seed, cost)
	if err != nil {
		return nil, err
	}
	for _, node := range net.Nodes() {
		if rate, ok := customerFillRate(net, node); ok {
			result.FillRates[node.ID] = rate
		}
	}
	return result, nil
}

// customerFillRate averages the final fill rate over the products for which
// node faces external demand
func customerFillRate(net *entities.Network, node *entities.Node) (float64, bool) {
	if len(node.History) == 0 {
		return 0, false
	}
	last := node.History[len(node.History)-1]
	sum, n := 0.0, 0
	for _, p := range node.Products() {
		if net.HasExternalCustomer(node, p) {
			sum += last.FillRate[p.ID]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

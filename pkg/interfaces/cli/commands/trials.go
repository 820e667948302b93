package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/invsim/pkg/application/services/simulation"
	"github.com/vsinha/invsim/pkg/infrastructure/metrics"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/invsim/pkg/interfaces/cli/output"
)

type trialsOptions struct {
	count       int
	periods     int
	seed        uint64
	parallelism int
	demandFile  string
	metricsFile string
}

// NewTrialsCommand creates the trials command
func NewTrialsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &trialsOptions{}

	cmd := &cobra.Command{
		Use:   "trials <instance.yaml>",
		Short: "Run independent trials and summarize the total cost",
		Long: `Run independent simulations of the same instance, trial i seeded with
seed+i, and report the mean, standard deviation and range of the total cost.
Trials run in parallel; the results do not depend on --parallelism.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrials(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "number of trials (overrides trials.count)")
	cmd.Flags().IntVar(&opts.periods, "periods", 0, "periods per trial (overrides simulation.periods)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "base seed (overrides simulation.seed)")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "concurrent trials (overrides trials.parallelism)")
	cmd.Flags().StringVar(&opts.demandFile, "demand", "", "CSV demand series replacing the instance's demand")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write experiment metrics in Prometheus text format")

	return cmd
}

func runTrials(cmd *cobra.Command, rootOpts *RootOptions, opts *trialsOptions, instance string) error {
	cfg := rootOpts.Config
	logger := rootOpts.Logger

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Trials.Count = opts.count
	}
	if flags.Changed("periods") {
		cfg.Simulation.Periods = opts.periods
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = opts.seed
	}
	if flags.Changed("parallelism") {
		cfg.Trials.Parallelism = opts.parallelism
	}

	networks, err := networkSource(instance, opts.demandFile)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	repo := memory.NewTrialRepository()

	simOpts := []simulation.Option{
		simulation.WithConsistencyChecks(cfg.Simulation.ConsistencyChecks),
		simulation.WithLogger(logger),
		simulation.WithMetrics(reg),
	}
	if cfg.Simulation.SteadyStatePipelines {
		simOpts = append(simOpts, simulation.WithSteadyStatePipelines())
	}

	logger.Info("running trials",
		"instance", instance,
		"trials", cfg.Trials.Count,
		"periods", cfg.Simulation.Periods,
		"base_seed", cfg.Simulation.Seed)

	result, err := simulation.RunTrials(cmd.Context(), networks, simulation.TrialOptions{
		NumTrials:   cfg.Trials.Count,
		NumPeriods:  cfg.Simulation.Periods,
		BaseSeed:    cfg.Simulation.Seed,
		Parallelism: cfg.Trials.Parallelism,
		Repository:  repo,
	}, simOpts...)
	if err != nil {
		return fmt.Errorf("trials failed: %w", err)
	}

	stored, err := repo.GetTrials(result.RunID)
	if err != nil {
		return err
	}
	logger.Debug("trials stored", "run_id", result.RunID, "count", len(stored))

	if opts.metricsFile != "" {
		if err := writeMetrics(opts.metricsFile, reg); err != nil {
			return err
		}
	}
	return output.Trials(result, rootOpts.outputConfig(cmd))
}

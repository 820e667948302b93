package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/invsim/pkg/application/services/simulation"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
	"github.com/vsinha/invsim/pkg/infrastructure/metrics"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/invsim/pkg/interfaces/cli/output"
)

type simulateOptions struct {
	periods     int
	seed        uint64
	outputDir   string
	demandFile  string
	metricsFile string
	steadyState bool
	skipChecks  bool
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <instance.yaml>",
		Short: "Run one simulation and print a summary",
		Long: `Run one seeded simulation of a network instance and print per-node costs
and per-product service levels.

With --output-dir (or output.dir) the full per-period history is written as CSV.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.periods, "periods", 0, "number of periods (overrides simulation.periods)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (overrides simulation.seed)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the CSV history (overrides output.dir)")
	cmd.Flags().StringVar(&opts.demandFile, "demand", "", "CSV demand series replacing the instance's demand")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format")
	cmd.Flags().BoolVar(&opts.steadyState, "steady-state", false, "start with steady-state pipelines")
	cmd.Flags().BoolVar(&opts.skipChecks, "skip-checks", false, "disable per-period consistency checks")

	return cmd
}

func runSimulate(cmd *cobra.Command, rootOpts *RootOptions, opts *simulateOptions, instance string) error {
	cfg := rootOpts.Config
	logger := rootOpts.Logger

	if cmd.Flags().Changed("periods") {
		cfg.Simulation.Periods = opts.periods
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = opts.seed
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.steadyState {
		cfg.Simulation.SteadyStatePipelines = true
	}
	if opts.skipChecks {
		cfg.Simulation.ConsistencyChecks = false
	}

	networks, err := networkSource(instance, opts.demandFile)
	if err != nil {
		return err
	}
	net, err := networks.LoadNetwork()
	if err != nil {
		return err
	}

	store := events.NewInMemoryEventStore()
	if err := store.Subscribe([]string{events.StockoutOccurredEvent, events.DisruptionStartedEvent}, &events.HandlerFunc{
		Types: []string{events.StockoutOccurredEvent, events.DisruptionStartedEvent},
		Fn: func(e events.Event) error {
			logger.Debug(e.Type(), "data", e.Data())
			return nil
		},
	}); err != nil {
		return err
	}
	reg := metrics.NewRegistry()

	simOpts := []simulation.Option{
		simulation.WithSeed(cfg.Simulation.Seed),
		simulation.WithConsistencyChecks(cfg.Simulation.ConsistencyChecks),
		simulation.WithLogger(logger),
		simulation.WithEventStore(store),
		simulation.WithMetrics(reg),
	}
	if cfg.Simulation.SteadyStatePipelines {
		simOpts = append(simOpts, simulation.WithSteadyStatePipelines())
	}

	sim, err := simulation.NewSimulator(net, cfg.Simulation.Periods, simOpts...)
	if err != nil {
		return err
	}
	if _, err := sim.Run(cmd.Context()); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	out := rootOpts.outputConfig(cmd)
	out.EventCounts, err = countEvents(store, sim.RunID())
	if err != nil {
		return err
	}
	if disruptions := store.ReadEventsOfType(sim.RunID(), events.DisruptionStartedEvent); len(disruptions) > 0 {
		first := disruptions[0].Data().(events.DisruptionStarted)
		logger.Info("run was disrupted", "disruptions", len(disruptions), "first_period", first.Period, "first_node", first.NodeID)
	}

	if cfg.Output.Dir != "" {
		path, err := csv.NewHistoryWriter().WriteHistoryFile(cfg.Output.Dir, "history-"+sim.RunID()+".csv", net)
		if err != nil {
			return err
		}
		logger.Info("history written", "path", path)
		out.HistoryFile = path
	}
	if opts.metricsFile != "" {
		if err := writeMetrics(opts.metricsFile, reg); err != nil {
			return err
		}
	}

	return output.Simulation(sim.Result(), out)
}

func countEvents(store events.EventStore, runID string) (map[string]int, error) {
	stream, err := store.ReadEvents(runID, 0)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	return events.CountByType(stream), nil
}

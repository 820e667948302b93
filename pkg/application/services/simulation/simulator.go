// Package simulation runs periodic-review inventory simulations over a network
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/services"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
	"github.com/vsinha/invsim/pkg/infrastructure/logging"
)

// tolerance absorbs floating point noise from fractional production
const tolerance = 1e-9

// seedStream is the fixed second PCG word; the seed alone selects the stream
const seedStream = 0x9e3779b97f4a7c15

// ErrFinished is returned by Step once every period has run
var ErrFinished = errors.New("simulation already finished")

// OrderKey identifies a node-product order decision
type OrderKey struct {
	Node    entities.NodeID
	Product entities.ProductID
}

// Simulator is a resumable simulation of one network. Each Step runs one full
// period; state is kept on the network's nodes between steps.
type Simulator struct {
	settings

	net        *entities.Network
	numPeriods int
	rng        *rand.Rand
	resolver   *services.BOMResolver

	topological []entities.NodeID
	reverse     []entities.NodeID

	period    int
	totalCost float64
	overrides map[OrderKey]float64
	err       error
}

// NewSimulator validates net and prepares period 0. Any history already
// attached to the network is discarded.
func NewSimulator(net *entities.Network, numPeriods int, opts ...Option) (*Simulator, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := newSimulator(net, numPeriods, cfg)
	if err != nil {
		if cfg.metrics != nil {
			cfg.metrics.RecordRun(0, err)
		}
		return nil, err
	}
	return s, nil
}

func newSimulator(net *entities.Network, numPeriods int, cfg settings) (*Simulator, error) {
	if net == nil {
		return nil, fmt.Errorf("network cannot be nil")
	}
	if numPeriods < 1 {
		return nil, fmt.Errorf("%w: number of periods must be positive, got %d", entities.ErrInvalidParameter, numPeriods)
	}

	if result := services.NewNetworkValidator().ValidateNetwork(net); !result.Valid() {
		return nil, fmt.Errorf("network validation failed: %w", result.Err())
	}
	topological, err := services.TopologicalOrder(net)
	if err != nil {
		return nil, err
	}
	reverse, err := services.ReverseTopologicalOrder(net)
	if err != nil {
		return nil, err
	}

	if !cfg.seeded {
		cfg.seed = rand.Uint64()
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	s := &Simulator{
		settings:    cfg,
		net:         net,
		numPeriods:  numPeriods,
		rng:         rand.New(rand.NewPCG(cfg.seed, seedStream)),
		resolver:    services.NewBOMResolver(net),
		topological: topological,
		reverse:     reverse,
	}

	net.ResetHistory()
	s.initialize()

	s.logger.Info("simulation started",
		"run_id", s.runID,
		"seed", s.seed,
		"periods", numPeriods,
		"nodes", len(topological))
	s.publish(events.SimulationStartedEvent, events.SimulationStarted{
		RunID:      s.runID,
		Seed:       s.seed,
		NumPeriods: numPeriods,
		NumNodes:   len(topological),
	})
	return s, nil
}

// Simulate runs net for numPeriods periods and returns the total cost. The
// per-period state is left on each node's History.
func Simulate(ctx context.Context, net *entities.Network, numPeriods int, opts ...Option) (float64, error) {
	sim, err := NewSimulator(net, numPeriods, opts...)
	if err != nil {
		return 0, err
	}
	return sim.Run(ctx)
}

// Run steps through every remaining period
func (s *Simulator) Run(ctx context.Context) (float64, error) {
	for !s.Done() {
		if err := s.Step(ctx); err != nil {
			return s.totalCost, err
		}
	}
	return s.totalCost, nil
}

// Step runs the next period
func (s *Simulator) Step(ctx context.Context) error {
	return s.StepWithOverrides(ctx, nil)
}

// StepWithOverrides runs the next period with the policy's finished-good
// order quantity replaced for the given node-products. Order capacity and
// order-pausing disruptions still apply.
func (s *Simulator) StepWithOverrides(ctx context.Context, overrides map[OrderKey]float64) error {
	if s.err != nil {
		return s.err
	}
	if s.Done() {
		return ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.overrides = overrides
	defer func() { s.overrides = nil }()

	cost, err := s.runPeriod(s.period)
	if err != nil {
		s.err = fmt.Errorf("period %d: %w", s.period, err)
		if s.metrics != nil {
			s.metrics.RecordRun(0, s.err)
		}
		return s.err
	}

	s.totalCost += cost
	s.period++

	if s.metrics != nil {
		s.metrics.RecordPeriod()
	}
	if s.progress != nil {
		s.progress(s.period, s.numPeriods)
	}

	if s.Done() {
		s.logger.Info("simulation completed",
			"run_id", s.runID,
			"periods", s.numPeriods,
			"total_cost", s.totalCost)
		s.publish(events.SimulationCompletedEvent, events.SimulationCompleted{
			RunID:     s.runID,
			Periods:   s.numPeriods,
			TotalCost: s.totalCost,
		})
		if s.metrics != nil {
			s.metrics.RecordRun(s.totalCost, nil)
		}
	}
	return nil
}

func (s *Simulator) runPeriod(t int) (float64, error) {
	if t > 0 {
		for _, id := range s.topological {
			node := s.node(id)
			prev := node.History[t-1]
			node.History = append(node.History, prev.NextPeriod(node.Disruption.Blocks(entities.TransitPausing)))
		}
	}

	if err := s.updateDisruptions(t); err != nil {
		return 0, err
	}

	for _, id := range s.reverse {
		node := s.node(id)
		state := node.History[t]
		if err := s.receiveOrders(node, state, t); err != nil {
			return 0, err
		}
		if err := s.placeOrders(node, state, t); err != nil {
			return 0, err
		}
		logging.Trace(s.logger, "orders processed", "period", t, "node", id)
	}

	for _, id := range s.topological {
		node := s.node(id)
		state := node.History[t]
		s.receiveShipments(node, state)
		s.produce(node, state)
		s.ship(node, state, t)
		logging.Trace(s.logger, "shipments processed", "period", t, "node", id)
	}

	periodCost := 0.0
	for _, id := range s.topological {
		node := s.node(id)
		state := node.History[t]
		periodCost += s.computeCosts(node, state, t)
		if s.consistencyChecks {
			if err := checkConsistency(node, state); err != nil {
				return 0, err
			}
		}
	}

	s.logger.Debug("period completed", "period", t, "cost", periodCost)
	s.publish(events.PeriodCompletedEvent, events.PeriodCompleted{Period: t, PeriodCost: periodCost})
	return periodCost, nil
}

func (s *Simulator) node(id entities.NodeID) *entities.Node {
	n, _ := s.net.Node(id)
	return n
}

func (s *Simulator) publish(eventType string, data any) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(s.runID, events.NewEvent(eventType, s.runID, s.period, data)); err != nil {
		s.logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}

// Period returns the number of completed periods
func (s *Simulator) Period() int {
	return s.period
}

// NumPeriods returns the configured horizon
func (s *Simulator) NumPeriods() int {
	return s.numPeriods
}

// Done reports whether every period has run
func (s *Simulator) Done() bool {
	return s.period >= s.numPeriods
}

// TotalCost returns the cost accumulated over the completed periods
func (s *Simulator) TotalCost() float64 {
	return s.totalCost
}

// Seed returns the seed driving this run
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// RunID returns the run identifier
func (s *Simulator) RunID() string {
	return s.runID
}

// Network returns the simulated network
func (s *Simulator) Network() *entities.Network {
	return s.net
}

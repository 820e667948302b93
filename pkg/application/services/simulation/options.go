package simulation

import (
	"log/slog"

	"github.com/vsinha/invsim/pkg/infrastructure/events"
	"github.com/vsinha/invsim/pkg/infrastructure/logging"
	"github.com/vsinha/invsim/pkg/infrastructure/metrics"
)

// ProgressFunc is called after each completed period
type ProgressFunc func(period, numPeriods int)

type settings struct {
	seed                 uint64
	seeded               bool
	consistencyChecks    bool
	steadyStatePipelines bool
	runID                string
	logger               *slog.Logger
	eventStore           events.EventStore
	metrics              *metrics.Registry
	progress             ProgressFunc
}

func defaultSettings() settings {
	return settings{
		consistencyChecks: true,
		logger:            logging.Discard(),
	}
}

// Option configures a Simulator
type Option func(*settings)

// WithSeed fixes the random seed. Without it a seed is drawn at random and
// reported in the result.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
	}
}

// WithConsistencyChecks toggles the per-period invariant checks (on by default)
func WithConsistencyChecks(enabled bool) Option {
	return func(s *settings) {
		s.consistencyChecks = enabled
	}
}

// WithSteadyStatePipelines fills every pipeline slot with the mean flow
// implied by downstream demand, unless a node sets InitialOrders or
// InitialShipments itself
func WithSteadyStatePipelines() Option {
	return func(s *settings) {
		s.steadyStatePipelines = true
	}
}

// WithRunID sets the id used for the event stream and the result
func WithRunID(id string) Option {
	return func(s *settings) {
		s.runID = id
	}
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventStore publishes simulation events to store
func WithEventStore(store events.EventStore) Option {
	return func(s *settings) {
		s.eventStore = store
	}
}

// WithMetrics records run metrics on reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *settings) {
		s.metrics = reg
	}
}

// WithProgress registers a per-period progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *settings) {
		s.progress = fn
	}
}

package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/infrastructure/events"
	"github.com/vsinha/invsim/pkg/infrastructure/metrics"
	testhelpers "github.com/vsinha/invsim/pkg/infrastructure/testing"
)

var disruptionTypes = []entities.DisruptionType{
	entities.OrderPausing,
	entities.ShipmentPausing,
	entities.TransitPausing,
	entities.ReceiptPausing,
}

// disruptedDistribution attaches the same Markovian process type to every
// retailer of a distribution network
func disruptedDistribution(retailers int, typ entities.DisruptionType) (*entities.Network, error) {
	net, err := testhelpers.BuildDistributionNetwork(retailers, 8)
	if err != nil {
		return nil, err
	}
	for _, node := range net.Nodes() {
		if node.ID == 0 {
			continue
		}
		d, err := entities.NewDisruptionProcess(entities.DisruptionModelMarkovian, typ, 0.2, 0.5, nil)
		if err != nil {
			return nil, err
		}
		node.Disruption = d
	}
	return net, nil
}

func TestSimulationInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25

	properties := gopter.NewProperties(parameters)

	properties.Property("end-of-period state is consistent under any disruption", prop.ForAll(
		func(seed uint64, typeIdx, retailers int) bool {
			net, err := disruptedDistribution(retailers, disruptionTypes[typeIdx])
			if err != nil {
				return false
			}
			_, err = Simulate(context.Background(), net, 40, WithSeed(seed))
			return err == nil
		},
		gen.UInt64(),
		gen.IntRange(0, len(disruptionTypes)-1),
		gen.IntRange(1, 4),
	))

	properties.Property("fill rate stays within [0, 1] and backorders equal the shortfall", prop.ForAll(
		func(seed uint64, typeIdx int) bool {
			net, err := disruptedDistribution(3, disruptionTypes[typeIdx])
			if err != nil {
				return false
			}
			if _, err := Simulate(context.Background(), net, 40, WithSeed(seed), WithConsistencyChecks(false)); err != nil {
				return false
			}
			for _, node := range net.Nodes() {
				for _, state := range node.History {
					for _, p := range node.Products() {
						fr := state.FillRate[p.ID]
						if fr < 0 || fr > 1 {
							return false
						}
						shortfall := math.Max(0, -state.InventoryLevel[p.ID])
						if math.Abs(state.TotalBackorders(p.ID)-shortfall) > 1e-6 {
							return false
						}
					}
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(0, len(disruptionTypes)-1),
	))

	properties.Property("nothing is received that was not ordered", prop.ForAll(
		func(seed uint64, typeIdx int) bool {
			net, err := disruptedDistribution(2, disruptionTypes[typeIdx])
			if err != nil {
				return false
			}
			if _, err := Simulate(context.Background(), net, 40, WithSeed(seed)); err != nil {
				return false
			}
			for _, node := range net.Nodes() {
				ordered, received := 0.0, 0.0
				for _, state := range node.History {
					ordered += state.TotalOrderQuantity()
					received += state.TotalInboundShipment()
				}
				if received > ordered+1e-6 {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(0, len(disruptionTypes)-1),
	))

	properties.Property("a seed reproduces the run", prop.ForAll(
		func(seed uint64) bool {
			first, err := disruptedDistribution(2, entities.TransitPausing)
			if err != nil {
				return false
			}
			second, err := disruptedDistribution(2, entities.TransitPausing)
			if err != nil {
				return false
			}
			a, errA := Simulate(context.Background(), first, 30, WithSeed(seed))
			b, errB := Simulate(context.Background(), second, 30, WithSeed(seed))
			return errA == nil && errB == nil && a == b
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestSimulate_PublishesEvents(t *testing.T) {
	store := events.NewInMemoryEventStore()

	periods := 0
	require.NoError(t, store.Subscribe([]string{events.PeriodCompletedEvent}, &events.HandlerFunc{
		Types: []string{events.PeriodCompletedEvent},
		Fn: func(events.Event) error {
			periods++
			return nil
		},
	}))

	net := testhelpers.MustNetwork(testhelpers.BuildTwoStageSerial())
	cost, err := Simulate(context.Background(), net, 12, WithSeed(5), WithRunID("run-events"), WithEventStore(store))
	require.NoError(t, err)

	assert.Equal(t, 12, periods)

	stream, err := store.ReadEvents("run-events", 0)
	require.NoError(t, err)
	require.NotEmpty(t, stream)
	assert.Equal(t, events.SimulationStartedEvent, stream[0].Type())

	last := stream[len(stream)-1]
	require.Equal(t, events.SimulationCompletedEvent, last.Type())
	completed, ok := last.Data().(events.SimulationCompleted)
	require.True(t, ok)
	assert.Equal(t, 12, completed.Periods)
	assert.InDelta(t, cost, completed.TotalCost, 1e-9)

	assert.Greater(t, events.CountByType(stream)[events.OrderPlacedEvent], 0)
	for _, e := range events.InPeriod(stream, 3) {
		if e.Type() == events.PeriodCompletedEvent {
			assert.Equal(t, 3, e.Data().(events.PeriodCompleted).Period)
		}
	}
}

func TestSimulate_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()

	net := testhelpers.MustNetwork(testhelpers.BuildSingleNode(10, 13))
	_, err := Simulate(context.Background(), net, 20, WithSeed(9), WithMetrics(reg))
	require.NoError(t, err)

	assert.Equal(t, 20.0, testutil.ToFloat64(reg.PeriodsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SimulationsTotal.WithLabelValues("ok")))
	assert.Greater(t, testutil.ToFloat64(reg.CostTotal.WithLabelValues("holding")), 0.0)

	_, err = Simulate(context.Background(), net, 0, WithMetrics(reg))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SimulationsTotal.WithLabelValues("error")))
}

func TestSimulate_ProgressCallback(t *testing.T) {
	var seen []int
	net := testhelpers.MustNetwork(testhelpers.BuildSingleNode(10, 13))
	_, err := Simulate(context.Background(), net, 4, WithSeed(1), WithProgress(func(period, total int) {
		assert.Equal(t, 4, total)
		seen = append(seen, period)
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

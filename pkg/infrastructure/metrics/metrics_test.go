package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	require.NotNil(t, r.Gatherer())

	// two registries must not collide
	assert.NotPanics(t, func() { NewRegistry() })
}

func TestRegistry_RecordOrder(t *testing.T) {
	r := NewRegistry()

	r.RecordOrder(1, 5)
	r.RecordOrder(1, 3)
	r.RecordOrder(1, 0)
	r.RecordOrder(2, 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OrdersTotal.WithLabelValues("1")))
	assert.Equal(t, 8.0, testutil.ToFloat64(r.OrderQuantity.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrdersTotal.WithLabelValues("2")))
}

func TestRegistry_RecordCostsAndRuns(t *testing.T) {
	r := NewRegistry()

	r.RecordCosts(2, 3, 1)
	r.RecordCosts(1, 0, 0)
	assert.Equal(t, 3.0, testutil.ToFloat64(r.CostTotal.WithLabelValues("holding")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.CostTotal.WithLabelValues("stockout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CostTotal.WithLabelValues("in_transit")))

	r.RecordRun(120, nil)
	r.RecordRun(0, errors.New("cycle"))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SimulationsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SimulationsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.RunTotalCost))
}

func TestRegistry_PeriodsStockoutsDisruptions(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 4; i++ {
		r.RecordPeriod()
	}
	r.RecordStockout(3)
	r.RecordDisruption(3, "TP")
	r.SetInventoryLevel(3, 1, -2)
	r.RecordTrial()

	assert.Equal(t, 4.0, testutil.ToFloat64(r.PeriodsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.StockoutsTotal.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DisruptedPeriods.WithLabelValues("3", "TP")))
	assert.Equal(t, -2.0, testutil.ToFloat64(r.InventoryLevel.WithLabelValues("3", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TrialsCompleted))
}

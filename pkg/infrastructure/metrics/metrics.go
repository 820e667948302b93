// Package metrics exposes Prometheus instruments for simulation runs
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups the simulator's instruments on one Prometheus registry
type Registry struct {
	registry *prometheus.Registry

	SimulationsTotal *prometheus.CounterVec
	PeriodsTotal     prometheus.Counter
	OrdersTotal      *prometheus.CounterVec
	OrderQuantity    *prometheus.CounterVec
	StockoutsTotal   *prometheus.CounterVec
	DisruptedPeriods *prometheus.CounterVec
	CostTotal        *prometheus.CounterVec
	RunTotalCost     prometheus.Histogram
	InventoryLevel   *prometheus.GaugeVec
	TrialsCompleted  prometheus.Counter
}

// NewRegistry creates a Registry backed by a fresh Prometheus registry
func NewRegistry() *Registry {
	return NewRegistryWith(prometheus.NewRegistry())
}

// NewRegistryWith registers the instruments on reg
func NewRegistryWith(reg *prometheus.Registry) *Registry {
	r := &Registry{registry: reg}
	factory := promauto.With(reg)

	r.SimulationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_simulations_total",
			Help: "Total number of simulation runs",
		},
		[]string{"status"},
	)

	r.PeriodsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "invsim_periods_total",
			Help: "Total number of simulated periods",
		},
	)

	r.OrdersTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_orders_total",
			Help: "Total number of non-zero replenishment orders placed",
		},
		[]string{"node"},
	)

	r.OrderQuantity = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_order_quantity_total",
			Help: "Total quantity ordered from suppliers",
		},
		[]string{"node"},
	)

	r.StockoutsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_stockouts_total",
			Help: "Node-product periods ending with backorders",
		},
		[]string{"node"},
	)

	r.DisruptedPeriods = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_disrupted_periods_total",
			Help: "Node periods spent DOWN",
		},
		[]string{"node", "type"},
	)

	r.CostTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invsim_cost_total",
			Help: "Accumulated cost by component",
		},
		[]string{"component"},
	)

	r.RunTotalCost = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invsim_run_total_cost",
			Help:    "Total cost per completed run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		},
	)

	r.InventoryLevel = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "invsim_inventory_level",
			Help: "Inventory level at the end of the latest period",
		},
		[]string{"node", "product"},
	)

	r.TrialsCompleted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "invsim_trials_completed_total",
			Help: "Total number of completed trials",
		},
	)

	return r
}

// Gatherer exposes the underlying registry for scraping or testing
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func label(id int) string {
	return strconv.Itoa(id)
}

// RecordPeriod records one completed period
func (r *Registry) RecordPeriod() {
	r.PeriodsTotal.Inc()
}

// RecordOrder records a replenishment order placed by a node
func (r *Registry) RecordOrder(node int, quantity float64) {
	if quantity <= 0 {
		return
	}
	r.OrdersTotal.WithLabelValues(label(node)).Inc()
	r.OrderQuantity.WithLabelValues(label(node)).Add(quantity)
}

// RecordStockout records a node-product period that ended with backorders
func (r *Registry) RecordStockout(node int) {
	r.StockoutsTotal.WithLabelValues(label(node)).Inc()
}

// RecordDisruption records a DOWN period
func (r *Registry) RecordDisruption(node int, disruptionType string) {
	r.DisruptedPeriods.WithLabelValues(label(node), disruptionType).Inc()
}

// RecordCosts adds one node-period's cost components. Negative components
// from custom cost functions are not recorded; counters only go up.
func (r *Registry) RecordCosts(holding, stockout, inTransit float64) {
	addCost(r.CostTotal.WithLabelValues("holding"), holding)
	addCost(r.CostTotal.WithLabelValues("stockout"), stockout)
	addCost(r.CostTotal.WithLabelValues("in_transit"), inTransit)
}

func addCost(c prometheus.Counter, v float64) {
	if v > 0 {
		c.Add(v)
	}
}

// SetInventoryLevel publishes the latest inventory level of a node-product
func (r *Registry) SetInventoryLevel(node, product int, level float64) {
	r.InventoryLevel.WithLabelValues(label(node), label(product)).Set(level)
}

// RecordRun records the outcome of one run
func (r *Registry) RecordRun(totalCost float64, err error) {
	if err != nil {
		r.SimulationsTotal.WithLabelValues("error").Inc()
		return
	}
	r.SimulationsTotal.WithLabelValues("ok").Inc()
	r.RunTotalCost.Observe(totalCost)
}

// RecordTrial records a completed trial
func (r *Registry) RecordTrial() {
	r.TrialsCompleted.Inc()
}

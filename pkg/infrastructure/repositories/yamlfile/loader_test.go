package yamlfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

const assemblyDoc = `
name: assembly
products:
  - id: 1
    name: frame
  - id: 2
    name: wheel
  - id: 3
    name: bike
    bill_of_materials:
      1: 1
      2: 2
    holding_cost: 2
nodes:
  - id: 0
    name: frame_supplier
    shipment_lead_time: 1
    products: [1]
    policy: {type: BS, base_stock_level: 10}
  - id: 1
    name: wheel_supplier
    shipment_lead_time: 1
    products: [2]
    policy: {type: BS, base_stock_level: 20}
    disruption:
      model: E
      type: TP
      disrupted_periods: [3, 4]
  - id: 2
    name: assembler
    order_lead_time: 1
    shipment_lead_time: 2
    products: [3]
    holding_cost: 0.5
    stockout_cost: 10
    demand: {type: D, values: [4, 6]}
    product_attributes:
      3:
        policy: {type: rQ, reorder_point: 5, order_quantity: 12}
        stockout_cost: 15
edges:
  - {from: 0, to: 2}
  - {from: 1, to: 2}
`

func TestParse_AssemblyNetwork(t *testing.T) {
	net, err := Parse([]byte(assemblyDoc))
	require.NoError(t, err)

	assert.Equal(t, "assembly", net.Name)
	assert.Equal(t, []entities.NodeID{0, 1, 2}, net.NodeIDs())
	assert.Equal(t, []entities.NodeID{0, 1}, net.Predecessors(2))

	assembler, ok := net.Node(2)
	require.True(t, ok)
	bike, ok := assembler.Product(3)
	require.True(t, ok)
	assert.Equal(t, 2.0, bike.BillOfMaterials(2))
	assert.Equal(t, 1.0, bike.BillOfMaterials(1))

	// node-product overrides node, product overrides node
	h, ok := assembler.HoldingCost(bike)
	require.True(t, ok)
	assert.Equal(t, 2.0, h)
	p, ok := assembler.StockoutCost(bike)
	require.True(t, ok)
	assert.Equal(t, 15.0, p)

	policy, ok := assembler.InventoryPolicy(bike)
	require.True(t, ok)
	assert.Equal(t, entities.ReorderPointQuantity, policy.Type())
	pid := entities.ProductID(3)
	assert.True(t, policy.Owner().Matches(2, &pid))

	demand, ok := assembler.DemandSource(bike)
	require.True(t, ok)
	assert.Equal(t, []float64{4, 6}, demand.List)

	wheels, _ := net.Node(1)
	require.NotNil(t, wheels.Disruption)
	assert.Equal(t, entities.TransitPausing, wheels.Disruption.Type)
	assert.Equal(t, []int{3, 4}, wheels.Disruption.DisruptedPeriods)
	assert.True(t, wheels.Disruption.IsUp())

	frames, _ := net.Node(0)
	bs, ok := frames.InventoryPolicy(nil)
	require.True(t, ok)
	level, ok := entities.BaseStockLevelOf(bs)
	require.True(t, ok)
	assert.Equal(t, 10.0, level)
}

func TestParse_SingleNodeWithDummyProduct(t *testing.T) {
	net, err := Parse([]byte(`
nodes:
  - id: 0
    holding_cost: 1
    stockout_cost: 4
    demand: {type: N, mean: 5, std_dev: 1}
    policy: {type: BS, base_stock_level: 13}
`))
	require.NoError(t, err)

	node, _ := net.Node(0)
	require.Len(t, node.Products(), 1)
	assert.True(t, node.Products()[0].IsDummy)

	ds, ok := node.DemandSource(nil)
	require.True(t, ok)
	assert.Equal(t, entities.DemandNormal, ds.Type)
	assert.InDelta(t, 5.0, ds.Mean(), 1e-9)
}

func TestParse_InitiallyDisrupted(t *testing.T) {
	net, err := Parse([]byte(`
nodes:
  - id: 0
    policy: {type: BS, base_stock_level: 1}
    disruption:
      model: M
      type: OP
      disruption_probability: 0.1
      recovery_probability: 0.5
      initially_disrupted: true
`))
	require.NoError(t, err)
	node, _ := net.Node(0)
	assert.False(t, node.Disruption.IsUp())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no nodes",
			doc:  "name: empty\n",
		},
		{
			name: "bad policy type",
			doc:  "nodes:\n  - id: 0\n    policy: {type: XX}\n",
		},
		{
			name: "negative holding cost",
			doc:  "nodes:\n  - id: 0\n    holding_cost: -1\n",
		},
		{
			name: "unknown product",
			doc:  "nodes:\n  - id: 0\n    products: [7]\n",
		},
		{
			name: "unknown bom raw material",
			doc:  "products:\n  - id: 1\n    bill_of_materials: {9: 1}\nnodes:\n  - id: 0\n",
		},
		{
			name: "duplicate node",
			doc:  "nodes:\n  - id: 0\n  - id: 0\n",
		},
		{
			name: "self loop",
			doc:  "nodes:\n  - id: 0\nedges:\n  - {from: 0, to: 0}\n",
		},
		{
			name: "edge to unknown node",
			doc:  "nodes:\n  - id: 0\nedges:\n  - {from: 0, to: 5}\n",
		},
		{
			name: "invalid disruption probability",
			doc:  "nodes:\n  - id: 0\n    disruption: {model: M, type: OP, disruption_probability: 1.5}\n",
		},
		{
			name: "malformed yaml",
			doc:  "nodes: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_ValidationErrorsAreInvalidParameter(t *testing.T) {
	_, err := Parse([]byte("nodes:\n  - id: 0\n    stockout_cost: -3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)
}

func TestNetworkRepository_FreshNetworkPerLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(assemblyDoc), 0o644))

	repo, err := NewNetworkRepository(path)
	require.NoError(t, err)

	first, err := repo.LoadNetwork()
	require.NoError(t, err)
	second, err := repo.LoadNetwork()
	require.NoError(t, err)

	a, _ := first.Node(1)
	b, _ := second.Node(1)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Disruption, b.Disruption)

	a.Disruption.Disrupted = true
	assert.True(t, b.Disruption.IsUp())
}

func TestNewNetworkRepository_MissingFile(t *testing.T) {
	_, err := NewNetworkRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

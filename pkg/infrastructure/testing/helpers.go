package testing

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/infrastructure/distributions"
)

// StageSpec describes one node of a test network
type StageSpec struct {
	OrderLeadTime    int
	ShipmentLeadTime int
	HoldingCost      float64
	StockoutCost     float64
	Policy           entities.Policy
	Demand           *entities.DemandSource
	Disruption       *entities.DisruptionProcess
}

// BuildSerialNetwork builds a serial line. stages[0] is the upstream source;
// the last stage faces the external customer. Node ids follow slice order.
func BuildSerialNetwork(stages ...StageSpec) (*entities.Network, error) {
	net := entities.NewNetwork("serial")
	for i, spec := range stages {
		node, err := buildStage(entities.NodeID(i), spec)
		if err != nil {
			return nil, err
		}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
		if i > 0 {
			if err := net.AddEdge(entities.NodeID(i-1), entities.NodeID(i)); err != nil {
				return nil, err
			}
		}
	}
	return net, nil
}

func buildStage(id entities.NodeID, spec StageSpec) (*entities.Node, error) {
	node, err := entities.NewNode(id, "", spec.OrderLeadTime, spec.ShipmentLeadTime)
	if err != nil {
		return nil, err
	}
	node.Attributes.HoldingCost = entities.Float(spec.HoldingCost)
	node.Attributes.StockoutCost = entities.Float(spec.StockoutCost)
	node.Attributes.Demand = spec.Demand
	node.Disruption = spec.Disruption
	node.SetPolicy(spec.Policy)
	return node, nil
}

// BuildSingleNode builds the single-stage network: Poisson demand, base-stock
// level S, order lead time 0 and shipment lead time 1
func BuildSingleNode(mean, baseStock float64) (*entities.Network, error) {
	demand, err := distributions.PoissonDemand(mean)
	if err != nil {
		return nil, err
	}
	return BuildSerialNetwork(StageSpec{
		ShipmentLeadTime: 1,
		HoldingCost:      1,
		StockoutCost:     10,
		Policy:           &entities.BaseStockPolicy{Level: baseStock},
		Demand:           demand,
	})
}

// BuildTwoStageSerial builds an (r,Q) upstream stage feeding a base-stock
// downstream stage with Poisson demand; both lead times are 1
func BuildTwoStageSerial() (*entities.Network, error) {
	demand, err := distributions.PoissonDemand(45)
	if err != nil {
		return nil, err
	}
	return BuildSerialNetwork(
		StageSpec{
			OrderLeadTime:    1,
			ShipmentLeadTime: 1,
			HoldingCost:      1,
			Policy:           &entities.RQPolicy{ReorderPoint: 10, Quantity: 50},
		},
		StageSpec{
			OrderLeadTime:    1,
			ShipmentLeadTime: 1,
			HoldingCost:      2,
			StockoutCost:     20,
			Policy:           &entities.BaseStockPolicy{Level: 50},
			Demand:           demand,
		},
	)
}

// BuildAssemblyNetwork builds two component suppliers (nodes 0 and 1, products
// 1 and 2) feeding an assembler (node 2, product 3) whose bill of materials
// needs units1 of product 1 and units2 of product 2
func BuildAssemblyNetwork(units1, units2 float64, demand *entities.DemandSource) (*entities.Network, error) {
	net := entities.NewNetwork("assembly")

	comp1, err := entities.NewProduct(1, "component_1")
	if err != nil {
		return nil, err
	}
	comp2, err := entities.NewProduct(2, "component_2")
	if err != nil {
		return nil, err
	}
	assembly, err := entities.NewProduct(3, "assembly")
	if err != nil {
		return nil, err
	}
	if err := assembly.SetBillOfMaterials(1, units1); err != nil {
		return nil, err
	}
	if err := assembly.SetBillOfMaterials(2, units2); err != nil {
		return nil, err
	}

	specs := []struct {
		product *entities.Product
		level   float64
		demand  *entities.DemandSource
	}{
		{comp1, 60 * units1, nil},
		{comp2, 60 * units2, nil},
		{assembly, 30, demand},
	}
	for i, s := range specs {
		node, err := buildStage(entities.NodeID(i), StageSpec{
			ShipmentLeadTime: 1,
			HoldingCost:      1,
			StockoutCost:     10,
			Policy:           &entities.BaseStockPolicy{Level: s.level},
			Demand:           s.demand,
		})
		if err != nil {
			return nil, err
		}
		if err := node.AddProduct(s.product); err != nil {
			return nil, err
		}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}
	for _, from := range []entities.NodeID{0, 1} {
		if err := net.AddEdge(from, 2); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// BuildDistributionNetwork builds one warehouse (node 0) shipping to n
// retailers (nodes 1..n), each with its own Poisson demand
func BuildDistributionNetwork(n int, mean float64) (*entities.Network, error) {
	net := entities.NewNetwork("distribution")
	warehouse, err := buildStage(0, StageSpec{
		ShipmentLeadTime: 2,
		HoldingCost:      0.5,
		Policy:           &entities.BaseStockPolicy{Level: float64(n) * mean * 3},
	})
	if err != nil {
		return nil, err
	}
	if err := net.AddNode(warehouse); err != nil {
		return nil, err
	}

	for i := 1; i <= n; i++ {
		demand, err := distributions.PoissonDemand(mean)
		if err != nil {
			return nil, err
		}
		retailer, err := buildStage(entities.NodeID(i), StageSpec{
			OrderLeadTime:    0,
			ShipmentLeadTime: 1,
			HoldingCost:      1,
			StockoutCost:     8,
			Policy:           &entities.BaseStockPolicy{Level: mean * 2.5},
			Demand:           demand,
		})
		if err != nil {
			return nil, err
		}
		if err := net.AddNode(retailer); err != nil {
			return nil, err
		}
		if err := net.AddEdge(0, entities.NodeID(i)); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// MustNetwork panics if building the network failed
func MustNetwork(net *entities.Network, err error) *entities.Network {
	if err != nil {
		panic(err)
	}
	return net
}

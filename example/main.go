package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/invsim/pkg/application/services/simulation"
	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/infrastructure/distributions"
	"github.com/vsinha/invsim/pkg/infrastructure/logging"
)

// A four-stage beer game: factory -> distributor -> wholesaler -> retailer.
// The retailer is driven step by step by a simple pass-through rule that
// orders exactly last period's customer demand, overriding its base-stock
// policy; the other stages follow their own policies.
func main() {
	ctx := context.Background()

	net, err := buildBeerGame()
	if err != nil {
		log.Fatalf("building network: %v", err)
	}

	sim, err := simulation.NewSimulator(net, 20,
		simulation.WithSeed(2024),
		simulation.WithSteadyStatePipelines(),
		simulation.WithLogger(logging.NewLogger("info", os.Stderr)),
	)
	if err != nil {
		log.Fatalf("creating simulator: %v", err)
	}

	retailer, _ := net.Node(3)
	beer := retailer.Products()[0].ID

	fmt.Println("Beer game, retailer ordering last period's demand")
	fmt.Printf("%-7s %8s %8s %8s %10s\n", "Period", "Demand", "Order", "IL", "Cost")

	lastDemand := 4.0
	for !sim.Done() {
		overrides := map[simulation.OrderKey]float64{
			{Node: retailer.ID, Product: beer}: lastDemand,
		}
		if err := sim.StepWithOverrides(ctx, overrides); err != nil {
			log.Fatalf("period %d: %v", sim.Period(), err)
		}

		state := retailer.StateAt(sim.Period() - 1)
		lastDemand = state.InboundOrder[beer][entities.ExternalCustomer]
		fmt.Printf("%-7d %8.0f %8.0f %8.0f %10s\n",
			state.Period,
			lastDemand,
			state.FinishedGoodOrder[beer],
			state.InventoryLevel[beer],
			decimal.NewFromFloat(state.TotalCostIncurred).StringFixed(2))
	}

	fmt.Println()
	result := sim.Result()
	for _, n := range result.Nodes {
		fmt.Printf("%-12s total cost %s\n", n.Name, decimal.NewFromFloat(n.TotalCost).StringFixed(2))
	}
	fmt.Printf("%-12s total cost %s\n", "network", decimal.NewFromFloat(result.TotalCost).StringFixed(2))
}

func buildBeerGame() (*entities.Network, error) {
	demand, err := distributions.DeterministicDemand(4, 4, 4, 4, 8, 8, 8, 8)
	if err != nil {
		return nil, err
	}

	net := entities.NewNetwork("beer_game")
	names := []string{"factory", "distributor", "wholesaler", "retailer"}
	for i, name := range names {
		node, err := entities.NewNode(entities.NodeID(i), name, 2, 2)
		if err != nil {
			return nil, err
		}
		node.Attributes.HoldingCost = entities.Float(0.5)
		node.Attributes.StockoutCost = entities.Float(1)
		node.SetPolicy(&entities.BaseStockPolicy{Level: 12})
		if i == len(names)-1 {
			node.Attributes.Demand = demand
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

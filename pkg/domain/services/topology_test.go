package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// buildNetwork creates nodes 0..n-1 with base-stock policies and the given edges
func buildNetwork(t *testing.T, n int, edges [][2]entities.NodeID) *entities.Network {
	t.Helper()
	net := entities.NewNetwork("test")
	for i := 0; i < n; i++ {
		node, err := entities.NewNode(entities.NodeID(i), "", 0, 1)
		if err != nil {
			t.Fatalf("NewNode(%d) failed: %v", i, err)
		}
		node.SetPolicy(&entities.BaseStockPolicy{Level: 10})
		if err := net.AddNode(node); err != nil {
			t.Fatalf("AddNode(%d) failed: %v", i, err)
		}
	}
	for _, e := range edges {
		if err := net.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d) failed: %v", e[0], e[1], err)
		}
	}
	return net
}

func TestTopologicalOrder(t *testing.T) {
	tests := []struct {
		name     string
		nodes    int
		edges    [][2]entities.NodeID
		expected []entities.NodeID
	}{
		{"single_node", 1, nil, []entities.NodeID{0}},
		{"serial", 3, [][2]entities.NodeID{{2, 1}, {1, 0}}, []entities.NodeID{2, 1, 0}},
		{"assembly", 3, [][2]entities.NodeID{{1, 0}, {2, 0}}, []entities.NodeID{1, 2, 0}},
		{"distribution", 3, [][2]entities.NodeID{{0, 2}, {0, 1}}, []entities.NodeID{0, 1, 2}},
		{"diamond", 4, [][2]entities.NodeID{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, []entities.NodeID{0, 1, 2, 3}},
		{"disconnected", 3, [][2]entities.NodeID{{2, 0}}, []entities.NodeID{1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := buildNetwork(t, tt.nodes, tt.edges)
			order, err := TopologicalOrder(net)
			if err != nil {
				t.Fatalf("TopologicalOrder failed: %v", err)
			}
			if !reflect.DeepEqual(order, tt.expected) {
				t.Errorf("TopologicalOrder = %v, want %v", order, tt.expected)
			}

			reversed, err := ReverseTopologicalOrder(net)
			if err != nil {
				t.Fatalf("ReverseTopologicalOrder failed: %v", err)
			}
			for i := range order {
				if reversed[i] != order[len(order)-1-i] {
					t.Fatalf("ReverseTopologicalOrder = %v, not the reverse of %v", reversed, order)
				}
			}
		})
	}
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	net := buildNetwork(t, 3, [][2]entities.NodeID{{0, 1}, {1, 2}, {2, 0}})

	_, err := TopologicalOrder(net)
	if !errors.Is(err, entities.ErrCycle) {
		t.Fatalf("Expected ErrCycle, got %v", err)
	}
}

package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// TopologicalOrder returns node ids so that every predecessor precedes its
// successors. Ties are broken by ascending node id so the order is stable
// across runs.
func TopologicalOrder(net *entities.Network) ([]entities.NodeID, error) {
	ids := net.NodeIDs()
	inDegree := make(map[entities.NodeID]int, len(ids))
	for _, id := range ids {
		inDegree[id] = len(net.Predecessors(id))
	}

	ready := make([]entities.NodeID, 0)
	for _, id := range ids {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]entities.NodeID, 0, len(ids))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		released := false
		for _, succ := range net.Successors(current) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
				released = true
			}
		}
		if released {
			sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		}
	}

	if len(order) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d nodes are on or behind a cycle", entities.ErrCycle, len(ids)-len(order), len(ids))
	}
	return order, nil
}

// ReverseTopologicalOrder returns successors before their predecessors
func ReverseTopologicalOrder(net *entities.Network) ([]entities.NodeID, error) {
	order, err := TopologicalOrder(net)
	if err != nil {
		return nil, err
	}
	reversed := make([]entities.NodeID, len(order))
	for i, id := range order {
		reversed[len(order)-1-i] = id
	}
	return reversed, nil
}

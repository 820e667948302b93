package entities

import (
	"fmt"
	"sort"
)

// Network is a directed graph of nodes; edges run predecessor -> successor
type Network struct {
	Name string

	nodes        map[NodeID]*Node
	successors   map[NodeID][]NodeID
	predecessors map[NodeID][]NodeID
}

// NewNetwork creates an empty network
func NewNetwork(name string) *Network {
	return &Network{
		Name:         name,
		nodes:        make(map[NodeID]*Node),
		successors:   make(map[NodeID][]NodeID),
		predecessors: make(map[NodeID][]NodeID),
	}
}

// AddNode adds a node; ids must be unique
func (net *Network) AddNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("node cannot be nil")
	}
	if _, exists := net.nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %d", n.ID)
	}
	net.nodes[n.ID] = n
	return nil
}

// AddEdge adds a "ships to" edge from predecessor to successor
func (net *Network) AddEdge(from, to NodeID) error {
	if _, ok := net.nodes[from]; !ok {
		return fmt.Errorf("edge source node %d not found", from)
	}
	if _, ok := net.nodes[to]; !ok {
		return fmt.Errorf("edge target node %d not found", to)
	}
	if from == to {
		return fmt.Errorf("%w: self-loop at node %d", ErrCycle, from)
	}
	for _, s := range net.successors[from] {
		if s == to {
			return nil
		}
	}
	net.successors[from] = insertSorted(net.successors[from], to)
	net.predecessors[to] = insertSorted(net.predecessors[to], from)
	return nil
}

func insertSorted(ids []NodeID, id NodeID) []NodeID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// Node returns the node with the given id
func (net *Network) Node(id NodeID) (*Node, bool) {
	n, ok := net.nodes[id]
	return n, ok
}

// Nodes returns all nodes in ascending id order
func (net *Network) Nodes() []*Node {
	out := make([]*Node, 0, len(net.nodes))
	for _, n := range net.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeIDs returns all node ids in ascending order
func (net *Network) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(net.nodes))
	for id := range net.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Predecessors returns the predecessor ids of a node in ascending order
func (net *Network) Predecessors(id NodeID) []NodeID {
	return append([]NodeID(nil), net.predecessors[id]...)
}

// Successors returns the successor ids of a node in ascending order
func (net *Network) Successors(id NodeID) []NodeID {
	return append([]NodeID(nil), net.successors[id]...)
}

// IsSource reports whether the node is supplied by the external supplier
func (net *Network) IsSource(id NodeID) bool {
	return len(net.predecessors[id]) == 0
}

// HasExternalCustomer reports whether the node faces external demand for p
func (net *Network) HasExternalCustomer(n *Node, p *Product) bool {
	if len(net.successors[n.ID]) == 0 {
		return true
	}
	ds, ok := n.DemandSource(p)
	return ok && ds.Type != DemandNone
}

// Descendants returns every node reachable from id, ascending
func (net *Network) Descendants(id NodeID) []NodeID {
	seen := make(map[NodeID]bool)
	queue := append([]NodeID(nil), net.successors[id]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		queue = append(queue, net.successors[current]...)
	}
	out := make([]NodeID, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Products returns every product handled anywhere in the network, ascending
func (net *Network) Products() []*Product {
	seen := make(map[ProductID]*Product)
	for _, n := range net.nodes {
		for _, p := range n.products {
			seen[p.ID] = p
		}
	}
	out := make([]*Product, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Product looks a product up across all nodes
func (net *Network) Product(id ProductID) (*Product, bool) {
	for _, n := range net.nodes {
		if p, ok := n.Product(id); ok {
			return p, true
		}
	}
	return nil, false
}

// ResetHistory drops all attached state records and resets disruption processes
func (net *Network) ResetHistory() {
	for _, n := range net.nodes {
		n.History = nil
		if n.Disruption != nil {
			n.Disruption.Reset()
		}
	}
}

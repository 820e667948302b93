package entities

import (
	"fmt"
	"sort"
)

// Node is a stage in the supply chain network
type Node struct {
	ID               NodeID
	Name             string
	OrderLeadTime    int
	ShipmentLeadTime int

	// Attributes apply to every product the node handles
	Attributes Attributes
	// ProductAttributes override both product-level and node-level attributes
	ProductAttributes map[ProductID]*Attributes

	Disruption *DisruptionProcess

	// History holds one state record per simulated period, attached by the engine
	History []*NodeStateVars

	products []*Product
}

// NewNode creates a validated Node handling a dummy product
func NewNode(id NodeID, name string, orderLeadTime, shipmentLeadTime int) (*Node, error) {
	if id < 0 {
		return nil, fmt.Errorf("node id cannot be negative, got %d", id)
	}
	if orderLeadTime < 0 {
		return nil, fmt.Errorf("order lead time cannot be negative, got %d", orderLeadTime)
	}
	if shipmentLeadTime < 0 {
		return nil, fmt.Errorf("shipment lead time cannot be negative, got %d", shipmentLeadTime)
	}
	if name == "" {
		name = fmt.Sprintf("node_%d", id)
	}

	n := &Node{
		ID:                id,
		Name:              name,
		OrderLeadTime:     orderLeadTime,
		ShipmentLeadTime:  shipmentLeadTime,
		ProductAttributes: make(map[ProductID]*Attributes),
	}
	n.products = []*Product{newDummyProduct(id)}
	return n, nil
}

// Products returns the products handled by n in ascending id order
func (n *Node) Products() []*Product {
	out := make([]*Product, len(n.products))
	copy(out, n.products)
	return out
}

// Product returns the handled product with the given id
func (n *Node) Product(id ProductID) (*Product, bool) {
	for _, p := range n.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// RealProducts returns the non-dummy products handled by n
func (n *Node) RealProducts() []*Product {
	var out []*Product
	for _, p := range n.products {
		if !p.IsDummy {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct adds p to the products handled by n. The dummy product is
// dropped once a real product is present.
func (n *Node) AddProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if p.IsDummy {
		return fmt.Errorf("dummy products are managed automatically")
	}
	if _, exists := n.Product(p.ID); exists {
		return nil
	}

	kept := n.products[:0]
	for _, existing := range n.products {
		if !existing.IsDummy {
			kept = append(kept, existing)
		}
	}
	n.products = append(kept, p)
	sort.Slice(n.products, func(i, j int) bool { return n.products[i].ID < n.products[j].ID })
	return nil
}

// RemoveProduct stops n from handling the product. Removing the last real
// product brings the dummy product back.
func (n *Node) RemoveProduct(id ProductID) {
	kept := n.products[:0]
	for _, p := range n.products {
		if p.ID != id || p.IsDummy {
			kept = append(kept, p)
		}
	}
	n.products = kept
	delete(n.ProductAttributes, id)
	if len(n.products) == 0 {
		n.products = []*Product{newDummyProduct(n.ID)}
	}
}

// SetProductAttributes installs node-product level overrides for a product
func (n *Node) SetProductAttributes(id ProductID, attrs *Attributes) {
	if n.ProductAttributes == nil {
		n.ProductAttributes = make(map[ProductID]*Attributes)
	}
	n.ProductAttributes[id] = attrs
	if attrs != nil && attrs.Policy != nil {
		pid := id
		attrs.Policy.BindOwner(n.ID, &pid)
	}
}

// SetPolicy sets a node-level inventory policy and records n as its owner
func (n *Node) SetPolicy(policy Policy) {
	n.Attributes.Policy = policy
	if policy != nil {
		policy.BindOwner(n.ID, nil)
	}
}

// soleProduct returns the product when n handles exactly one
func (n *Node) soleProduct() *Product {
	if len(n.products) == 1 {
		return n.products[0]
	}
	return nil
}

// StateAt returns the state record for a period, or nil before it is created
func (n *Node) StateAt(period int) *NodeStateVars {
	if period < 0 || period >= len(n.History) {
		return nil
	}
	return n.History[period]
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%d)", n.Name, n.ID)
}

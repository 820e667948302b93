package entities

import (
	"fmt"
	"sort"
)

// Product is an item handled by one or more nodes. A product handled by two
// nodes is the same *Product, not a copy.
type Product struct {
	ID         ProductID
	Name       string
	IsDummy    bool
	Attributes Attributes

	// raw material -> units required per unit of this product
	bom map[ProductID]float64
}

// NewProduct creates a validated Product
func NewProduct(id ProductID, name string) (*Product, error) {
	if id < 0 {
		return nil, fmt.Errorf("product id cannot be negative, got %d", id)
	}
	if name == "" {
		name = fmt.Sprintf("product_%d", id)
	}
	return &Product{
		ID:   id,
		Name: name,
		bom:  make(map[ProductID]float64),
	}, nil
}

// dummyProductID maps a node to its reserved negative product id
func dummyProductID(node NodeID) ProductID {
	return ProductID(-int(node) - 1)
}

func newDummyProduct(node NodeID) *Product {
	return &Product{
		ID:      dummyProductID(node),
		Name:    fmt.Sprintf("dummy_%d", node),
		IsDummy: true,
		bom:     make(map[ProductID]float64),
	}
}

// SetBillOfMaterials sets the units of rawMaterial required per unit of p.
// Setting zero removes the relationship.
func (p *Product) SetBillOfMaterials(rawMaterial ProductID, units float64) error {
	if rawMaterial == p.ID {
		return fmt.Errorf("product %d cannot be its own raw material", p.ID)
	}
	if units < 0 {
		return invalidParam("bill of materials for %d -> %d cannot be negative, got %g", p.ID, rawMaterial, units)
	}
	if p.bom == nil {
		p.bom = make(map[ProductID]float64)
	}
	if units == 0 {
		delete(p.bom, rawMaterial)
		return nil
	}
	p.bom[rawMaterial] = units
	return nil
}

// BillOfMaterials returns the explicit units of rawMaterial per unit of p, or 0
func (p *Product) BillOfMaterials(rawMaterial ProductID) float64 {
	return p.bom[rawMaterial]
}

// RawMaterials returns the explicit raw materials of p in ascending id order
func (p *Product) RawMaterials() []ProductID {
	ids := make([]ProductID, 0, len(p.bom))
	for id := range p.bom {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasBillOfMaterials reports whether p has any explicit raw material
func (p *Product) HasBillOfMaterials() bool {
	return len(p.bom) > 0
}

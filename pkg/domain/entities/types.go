package entities

import "fmt"

// NodeID identifies a stage (inventory-holding location) in a network
type NodeID int

// ProductID identifies a product; negative IDs are reserved for dummy products
type ProductID int

const (
	// ExternalSupplier is the implicit, never-stocked-out supplier of a source node
	ExternalSupplier NodeID = -1
	// ExternalCustomer is the implicit customer of a sink or demand node
	ExternalCustomer NodeID = -2
)

// String renders the external partners by name so log lines stay readable
func (id NodeID) String() string {
	switch id {
	case ExternalSupplier:
		return "EXT_SUPPLIER"
	case ExternalCustomer:
		return "EXT_CUSTOMER"
	default:
		return fmt.Sprintf("%d", int(id))
	}
}

// IsExternal reports whether the id names an external partner rather than a node
func (id NodeID) IsExternal() bool {
	return id == ExternalSupplier || id == ExternalCustomer
}

// Float returns a pointer to v, for populating optional attributes
func Float(v float64) *float64 {
	return &v
}

package services

import (
	"github.com/vsinha/invsim/pkg/domain/entities"
)

// Supplier is one (predecessor, raw material) source of a finished good
type Supplier struct {
	Predecessor entities.NodeID
	RawMaterial entities.ProductID
	// Units of raw material per unit of finished good
	Units float64
}

// BOMResolver resolves network bills of materials. Results are computed once
// per network and cached; build a new resolver if the network changes.
type BOMResolver struct {
	net       *entities.Network
	suppliers map[entities.NodeID]map[entities.ProductID][]Supplier
}

// NewBOMResolver precomputes the suppliers of every node-product pair
func NewBOMResolver(net *entities.Network) *BOMResolver {
	r := &BOMResolver{
		net:       net,
		suppliers: make(map[entities.NodeID]map[entities.ProductID][]Supplier),
	}
	for _, n := range net.Nodes() {
		byProduct := make(map[entities.ProductID][]Supplier)
		for _, fg := range n.Products() {
			byProduct[fg.ID] = r.resolveSuppliers(n, fg)
		}
		r.suppliers[n.ID] = byProduct
	}
	return r
}

// NetworkBOM returns the units of rm (handled at pred) needed per unit of fg
// (handled at node). An explicit product BOM entry wins; when no explicit
// relationship exists between any product at node and any product at pred,
// every pair implicitly needs one unit.
func (r *BOMResolver) NetworkBOM(node *entities.Node, fg *entities.Product, pred *entities.Node, rm *entities.Product) float64 {
	if units := fg.BillOfMaterials(rm.ID); units > 0 {
		return units
	}
	if hasExplicitRelationship(node, pred) {
		return 0
	}
	return 1
}

func hasExplicitRelationship(node, pred *entities.Node) bool {
	for _, fg := range node.Products() {
		for _, rm := range pred.Products() {
			if fg.BillOfMaterials(rm.ID) > 0 {
				return true
			}
		}
	}
	return false
}

func (r *BOMResolver) resolveSuppliers(n *entities.Node, fg *entities.Product) []Supplier {
	suppliers := make([]Supplier, 0)
	for _, predID := range r.net.Predecessors(n.ID) {
		pred, ok := r.net.Node(predID)
		if !ok {
			continue
		}
		for _, rm := range pred.Products() {
			if units := r.NetworkBOM(n, fg, pred, rm); units > 0 {
				suppliers = append(suppliers, Supplier{Predecessor: predID, RawMaterial: rm.ID, Units: units})
			}
		}
	}
	if len(suppliers) == 0 {
		// source nodes buy the finished good itself from the external supplier
		suppliers = append(suppliers, Supplier{Predecessor: entities.ExternalSupplier, RawMaterial: fg.ID, Units: 1})
	}
	return suppliers
}

// RawMaterialSuppliers returns the suppliers of fg at node, ordered by
// predecessor id then raw material id
func (r *BOMResolver) RawMaterialSuppliers(node entities.NodeID, fg entities.ProductID) []Supplier {
	return r.suppliers[node][fg]
}

// SupplierCount returns how many predecessors supply rm for fg at node
func (r *BOMResolver) SupplierCount(node entities.NodeID, fg, rm entities.ProductID) int {
	count := 0
	for _, s := range r.suppliers[node][fg] {
		if s.RawMaterial == rm {
			count++
		}
	}
	return count
}

// RawMaterialRequirements returns the units of each distinct raw material
// needed per unit of fg at node
func (r *BOMResolver) RawMaterialRequirements(node entities.NodeID, fg entities.ProductID) map[entities.ProductID]float64 {
	reqs := make(map[entities.ProductID]float64)
	for _, s := range r.suppliers[node][fg] {
		if _, seen := reqs[s.RawMaterial]; !seen {
			reqs[s.RawMaterial] = s.Units
		}
	}
	return reqs
}

// RawMaterialOrders translates a finished-good order quantity into raw
// material orders per supplier. Each raw material is split evenly across the
// predecessors that supply it.
func (r *BOMResolver) RawMaterialOrders(node entities.NodeID, fg entities.ProductID, qty float64) []SupplierOrder {
	suppliers := r.suppliers[node][fg]
	orders := make([]SupplierOrder, 0, len(suppliers))
	for _, s := range suppliers {
		count := r.SupplierCount(node, fg, s.RawMaterial)
		orders = append(orders, SupplierOrder{
			Supplier: s,
			Quantity: qty * s.Units / float64(count),
		})
	}
	return orders
}

// SupplierOrder is a raw material quantity to order from one supplier
type SupplierOrder struct {
	Supplier
	Quantity float64
}

package entities

import "math"

// NodeStateVars is the state of one node in one period. Per-period flows are
// zeroed when the record is created; stocks (on hand, backorders, pipelines,
// raw materials, pending production, held items) carry over from the previous
// period.
type NodeStateVars struct {
	NodeID    NodeID
	Period    int
	Disrupted bool

	// [product][successor] orders received this period; ExternalCustomer is demand
	InboundOrder map[ProductID]map[NodeID]float64
	// [product][successor][k] orders arriving k periods from now
	InboundOrderPipeline map[ProductID]map[NodeID][]float64

	// [finished good] quantity decided by the policy this period
	FinishedGoodOrder map[ProductID]float64
	// [predecessor][raw material] quantity ordered this period
	OrderQuantity map[NodeID]map[ProductID]float64
	// [predecessor][raw material] ordered but not yet received
	OnOrder map[NodeID]map[ProductID]float64

	// [predecessor][raw material] received this period
	InboundShipment map[NodeID]map[ProductID]float64
	// [predecessor][raw material][k] shipments arriving k periods from now
	InboundShipmentPipeline map[NodeID]map[ProductID][]float64
	// [predecessor][raw material] arrived but held while the node is receipt-paused
	InboundDisruptedItems map[NodeID]map[ProductID]float64

	// [raw material] pooled across predecessors and finished goods
	RawMaterialInventory map[ProductID]float64
	// [finished good] ordered but not yet produced, in finished-good units
	PendingFinishedGoods map[ProductID]float64
	// [finished good] produced this period
	Production map[ProductID]float64

	// [product][successor] sent into the successor's pipeline (or to the customer)
	OutboundShipment map[ProductID]map[NodeID]float64
	// [product][successor] held because the successor is shipment-paused
	OutboundDisruptedItems map[ProductID]map[NodeID]float64

	OnHand     map[ProductID]float64
	Backorders map[ProductID]map[NodeID]float64
	// InventoryLevel is OnHand minus total backorders, signed
	InventoryLevel map[ProductID]float64

	DemandMetFromStock           map[ProductID]float64
	DemandCumulative             map[ProductID]float64
	DemandMetFromStockCumulative map[ProductID]float64
	ShippedCumulative            map[ProductID]float64
	// BackorderBaseline is the backorder quantity present before period 0
	BackorderBaseline map[ProductID]float64
	FillRate          map[ProductID]float64

	HoldingCostIncurred          float64
	StockoutCostIncurred         float64
	InTransitHoldingCostIncurred float64
	TotalCostIncurred            float64
}

// NewNodeStateVars allocates an empty record
func NewNodeStateVars(node NodeID, period int) *NodeStateVars {
	return &NodeStateVars{
		NodeID:                       node,
		Period:                       period,
		InboundOrder:                 make(map[ProductID]map[NodeID]float64),
		InboundOrderPipeline:         make(map[ProductID]map[NodeID][]float64),
		FinishedGoodOrder:            make(map[ProductID]float64),
		OrderQuantity:                make(map[NodeID]map[ProductID]float64),
		OnOrder:                      make(map[NodeID]map[ProductID]float64),
		InboundShipment:              make(map[NodeID]map[ProductID]float64),
		InboundShipmentPipeline:      make(map[NodeID]map[ProductID][]float64),
		InboundDisruptedItems:        make(map[NodeID]map[ProductID]float64),
		RawMaterialInventory:         make(map[ProductID]float64),
		PendingFinishedGoods:         make(map[ProductID]float64),
		Production:                   make(map[ProductID]float64),
		OutboundShipment:             make(map[ProductID]map[NodeID]float64),
		OutboundDisruptedItems:       make(map[ProductID]map[NodeID]float64),
		OnHand:                       make(map[ProductID]float64),
		Backorders:                   make(map[ProductID]map[NodeID]float64),
		InventoryLevel:               make(map[ProductID]float64),
		DemandMetFromStock:           make(map[ProductID]float64),
		DemandCumulative:             make(map[ProductID]float64),
		DemandMetFromStockCumulative: make(map[ProductID]float64),
		ShippedCumulative:            make(map[ProductID]float64),
		BackorderBaseline:            make(map[ProductID]float64),
		FillRate:                     make(map[ProductID]float64),
	}
}

func addTo[K1, K2 comparable](m map[K1]map[K2]float64, k1 K1, k2 K2, v float64) {
	inner, ok := m[k1]
	if !ok {
		inner = make(map[K2]float64)
		m[k1] = inner
	}
	inner[k2] += v
}

func setIn[K1, K2 comparable](m map[K1]map[K2]float64, k1 K1, k2 K2, v float64) {
	inner, ok := m[k1]
	if !ok {
		inner = make(map[K2]float64)
		m[k1] = inner
	}
	inner[k2] = v
}

func addToPipeline[K1, K2 comparable](m map[K1]map[K2][]float64, k1 K1, k2 K2, offset int, v float64) {
	inner, ok := m[k1]
	if !ok {
		inner = make(map[K2][]float64)
		m[k1] = inner
	}
	pipe := inner[k2]
	for len(pipe) <= offset {
		pipe = append(pipe, 0)
	}
	pipe[offset] += v
	inner[k2] = pipe
}

func sumInner[K comparable](m map[K]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

// AddInboundOrder records an order received from a successor (or demand)
func (s *NodeStateVars) AddInboundOrder(product ProductID, from NodeID, qty float64) {
	addTo(s.InboundOrder, product, from, qty)
}

// AddToOrderPipeline queues an order from a successor arriving offset periods from now
func (s *NodeStateVars) AddToOrderPipeline(product ProductID, from NodeID, offset int, qty float64) {
	addToPipeline(s.InboundOrderPipeline, product, from, offset, qty)
}

// AddToShipmentPipeline queues a shipment arriving offset periods from now
func (s *NodeStateVars) AddToShipmentPipeline(from NodeID, rawMaterial ProductID, offset int, qty float64) {
	addToPipeline(s.InboundShipmentPipeline, from, rawMaterial, offset, qty)
}

// OrderPipelineDue returns the order from a successor that is due this period
func (s *NodeStateVars) OrderPipelineDue(product ProductID, from NodeID) float64 {
	pipe := s.InboundOrderPipeline[product][from]
	if len(pipe) == 0 {
		return 0
	}
	return pipe[0]
}

// ShipmentPipelineDue returns the shipment that arrives this period
func (s *NodeStateVars) ShipmentPipelineDue(from NodeID, rawMaterial ProductID) float64 {
	pipe := s.InboundShipmentPipeline[from][rawMaterial]
	if len(pipe) == 0 {
		return 0
	}
	return pipe[0]
}

// ClearShipmentDue empties the current slot once it has been taken
func (s *NodeStateVars) ClearShipmentDue(from NodeID, rawMaterial ProductID) {
	if pipe := s.InboundShipmentPipeline[from][rawMaterial]; len(pipe) > 0 {
		pipe[0] = 0
	}
}

// PlaceOrder records an order to a predecessor for a raw material
func (s *NodeStateVars) PlaceOrder(to NodeID, rawMaterial ProductID, qty float64) {
	addTo(s.OrderQuantity, to, rawMaterial, qty)
	addTo(s.OnOrder, to, rawMaterial, qty)
}

// AddOnOrder records quantity already on order before the period, without
// counting it as placed this period
func (s *NodeStateVars) AddOnOrder(to NodeID, rawMaterial ProductID, qty float64) {
	addTo(s.OnOrder, to, rawMaterial, qty)
}

// ReceiveShipment credits a received shipment to raw material inventory
func (s *NodeStateVars) ReceiveShipment(from NodeID, rawMaterial ProductID, qty float64) {
	addTo(s.InboundShipment, from, rawMaterial, qty)
	addTo(s.OnOrder, from, rawMaterial, -qty)
	s.RawMaterialInventory[rawMaterial] += qty
}

// HoldInbound parks arriving items while receipt is paused
func (s *NodeStateVars) HoldInbound(from NodeID, rawMaterial ProductID, qty float64) {
	addTo(s.InboundDisruptedItems, from, rawMaterial, qty)
}

// ReleaseInbound returns and clears the held inbound items
func (s *NodeStateVars) ReleaseInbound(from NodeID, rawMaterial ProductID) float64 {
	held := s.InboundDisruptedItems[from][rawMaterial]
	if held != 0 {
		setIn(s.InboundDisruptedItems, from, rawMaterial, 0)
	}
	return held
}

// HoldOutbound parks a shipment for a shipment-paused successor
func (s *NodeStateVars) HoldOutbound(product ProductID, to NodeID, qty float64) {
	addTo(s.OutboundDisruptedItems, product, to, qty)
}

// ReleaseOutbound returns and clears items held for a successor
func (s *NodeStateVars) ReleaseOutbound(product ProductID, to NodeID) float64 {
	held := s.OutboundDisruptedItems[product][to]
	if held != 0 {
		setIn(s.OutboundDisruptedItems, product, to, 0)
	}
	return held
}

// RecordOutbound records units sent to a successor or the customer
func (s *NodeStateVars) RecordOutbound(product ProductID, to NodeID, qty float64) {
	addTo(s.OutboundShipment, product, to, qty)
}

// SetBackorder sets the quantity owed to a successor
func (s *NodeStateVars) SetBackorder(product ProductID, to NodeID, qty float64) {
	setIn(s.Backorders, product, to, qty)
}

// Backorder returns the quantity owed to a successor
func (s *NodeStateVars) Backorder(product ProductID, to NodeID) float64 {
	return s.Backorders[product][to]
}

// TotalBackorders returns the backorders owed across all successors
func (s *NodeStateVars) TotalBackorders(product ProductID) float64 {
	return sumInner(s.Backorders[product])
}

// TotalInboundOrder returns the orders received this period across all successors
func (s *NodeStateVars) TotalInboundOrder(product ProductID) float64 {
	return sumInner(s.InboundOrder[product])
}

// TotalOrderQuantity returns all raw-material orders placed this period
func (s *NodeStateVars) TotalOrderQuantity() float64 {
	total := 0.0
	for _, byRM := range s.OrderQuantity {
		total += sumInner(byRM)
	}
	return total
}

// TotalInboundShipment returns everything received this period
func (s *NodeStateVars) TotalInboundShipment() float64 {
	total := 0.0
	for _, byRM := range s.InboundShipment {
		total += sumInner(byRM)
	}
	return total
}

// CurrentInventoryLevel is on hand minus backorders, from the stocks as they stand
func (s *NodeStateVars) CurrentInventoryLevel(product ProductID) float64 {
	return s.OnHand[product] - s.TotalBackorders(product)
}

// InventoryPosition is the finished-good position after this period's orders
// were received: on hand minus backorders and current orders, plus pending
// production (every on-order stage expressed in finished-good units).
func (s *NodeStateVars) InventoryPosition(product ProductID) float64 {
	return s.CurrentInventoryLevel(product) - s.TotalInboundOrder(product) + s.PendingFinishedGoods[product]
}

// InTransit returns units in the inbound pipelines plus items held on receipt
func (s *NodeStateVars) InTransit() float64 {
	total := 0.0
	for _, byRM := range s.InboundShipmentPipeline {
		for _, pipe := range byRM {
			for _, v := range pipe {
				total += v
			}
		}
	}
	for _, byRM := range s.InboundDisruptedItems {
		total += sumInner(byRM)
	}
	return total
}

// InTransitFrom returns units of rawMaterial in the pipeline from a predecessor
func (s *NodeStateVars) InTransitFrom(from NodeID, rawMaterial ProductID) float64 {
	total := 0.0
	for _, v := range s.InboundShipmentPipeline[from][rawMaterial] {
		total += v
	}
	return total
}

// EchelonContribution returns the inventory this node adds to an upstream
// echelon position: on hand net of external backorders and current external
// demand, raw materials, held outbound items and, for downstream members,
// everything in transit to it.
func (s *NodeStateVars) EchelonContribution(includeInbound bool) float64 {
	total := 0.0
	for p, oh := range s.OnHand {
		total += oh - s.Backorder(p, ExternalCustomer) - s.InboundOrder[p][ExternalCustomer]
	}
	for p, byTo := range s.Backorders {
		if _, ok := s.OnHand[p]; !ok {
			total -= byTo[ExternalCustomer] + s.InboundOrder[p][ExternalCustomer]
		}
	}
	for _, byTo := range s.OutboundDisruptedItems {
		total += sumInner(byTo)
	}
	if includeInbound {
		total += sumInner(s.RawMaterialInventory)
		total += s.InTransit()
	}
	return total
}

// NextPeriod creates the record for the following period. Stocks carry over,
// the order pipelines advance one slot, and the shipment pipelines advance
// unless transit was frozen.
func (s *NodeStateVars) NextPeriod(freezeTransit bool) *NodeStateVars {
	next := NewNodeStateVars(s.NodeID, s.Period+1)

	for p, bySucc := range s.InboundOrderPipeline {
		for succ, pipe := range bySucc {
			next.InboundOrderPipeline[p] = ensureInner(next.InboundOrderPipeline[p])
			next.InboundOrderPipeline[p][succ] = shift(pipe)
		}
	}
	for pred, byRM := range s.InboundShipmentPipeline {
		for rm, pipe := range byRM {
			next.InboundShipmentPipeline[pred] = ensureInner(next.InboundShipmentPipeline[pred])
			if freezeTransit {
				next.InboundShipmentPipeline[pred][rm] = append([]float64(nil), pipe...)
			} else {
				next.InboundShipmentPipeline[pred][rm] = shift(pipe)
			}
		}
	}

	copyNested(next.OnOrder, s.OnOrder)
	copyNested(next.InboundDisruptedItems, s.InboundDisruptedItems)
	copyNested(next.OutboundDisruptedItems, s.OutboundDisruptedItems)
	copyNested(next.Backorders, s.Backorders)
	copyFlat(next.RawMaterialInventory, s.RawMaterialInventory)
	copyFlat(next.PendingFinishedGoods, s.PendingFinishedGoods)
	copyFlat(next.OnHand, s.OnHand)
	copyFlat(next.InventoryLevel, s.InventoryLevel)
	copyFlat(next.DemandCumulative, s.DemandCumulative)
	copyFlat(next.DemandMetFromStockCumulative, s.DemandMetFromStockCumulative)
	copyFlat(next.ShippedCumulative, s.ShippedCumulative)
	copyFlat(next.BackorderBaseline, s.BackorderBaseline)
	copyFlat(next.FillRate, s.FillRate)
	return next
}

func ensureInner[K comparable](m map[K][]float64) map[K][]float64 {
	if m == nil {
		return make(map[K][]float64)
	}
	return m
}

// shift drops slot 0 and keeps the pipeline length
func shift(pipe []float64) []float64 {
	out := make([]float64, len(pipe))
	if len(pipe) > 1 {
		copy(out, pipe[1:])
	}
	return out
}

func copyNested[K1, K2 comparable](dst, src map[K1]map[K2]float64) {
	for k1, inner := range src {
		cp := make(map[K2]float64, len(inner))
		for k2, v := range inner {
			cp[k2] = v
		}
		dst[k1] = cp
	}
}

func copyFlat[K comparable](dst, src map[K]float64) {
	for k, v := range src {
		dst[k] = v
	}
}

// UpdateFillRate recomputes the cumulative fill rate; 1 before any demand
func (s *NodeStateVars) UpdateFillRate(product ProductID) {
	demand := s.DemandCumulative[product]
	if demand <= 0 {
		s.FillRate[product] = 1
		return
	}
	s.FillRate[product] = math.Min(1, s.DemandMetFromStockCumulative[product]/demand)
}

package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

var historyHeader = []string{
	"period", "node", "product", "disrupted",
	"demand", "inbound_order", "order_quantity", "inbound_shipment", "production",
	"on_hand", "backorders", "inventory_level", "raw_material_inventory", "in_transit",
	"fill_rate", "holding_cost", "stockout_cost", "in_transit_holding_cost", "total_cost",
}

// HistoryWriter exports per-period node state as CSV
type HistoryWriter struct{}

// NewHistoryWriter creates a new CSV history writer
func NewHistoryWriter() *HistoryWriter {
	return &HistoryWriter{}
}

// WriteHistory writes one row per node, product and period. Node-level
// quantities (orders, receipts, raw materials, costs) repeat on each product row.
func (w *HistoryWriter) WriteHistory(out io.Writer, net *entities.Network) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}

	for _, node := range net.Nodes() {
		for _, s := range node.History {
			for _, p := range node.Products() {
				if err := writer.Write(historyRow(s, p.ID)); err != nil {
					return fmt.Errorf("failed to write history row for node %s period %d: %w", node.ID, s.Period, err)
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func historyRow(s *entities.NodeStateVars, product entities.ProductID) []string {
	rawMaterials := 0.0
	for _, v := range s.RawMaterialInventory {
		rawMaterials += v
	}
	return []string{
		strconv.Itoa(s.Period),
		s.NodeID.String(),
		strconv.Itoa(int(product)),
		strconv.FormatBool(s.Disrupted),
		formatQuantity(s.InboundOrder[product][entities.ExternalCustomer]),
		formatQuantity(s.TotalInboundOrder(product)),
		formatQuantity(s.TotalOrderQuantity()),
		formatQuantity(s.TotalInboundShipment()),
		formatQuantity(s.Production[product]),
		formatQuantity(s.OnHand[product]),
		formatQuantity(s.TotalBackorders(product)),
		formatQuantity(s.InventoryLevel[product]),
		formatQuantity(rawMaterials),
		formatQuantity(s.InTransit()),
		formatQuantity(s.FillRate[product]),
		formatQuantity(s.HoldingCostIncurred),
		formatQuantity(s.StockoutCostIncurred),
		formatQuantity(s.InTransitHoldingCostIncurred),
		formatQuantity(s.TotalCostIncurred),
	}
}

// WriteHistoryFile writes the history to dir/name, creating dir if needed
func (w *HistoryWriter) WriteHistoryFile(dir, name string, net *entities.Network) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create history file %s: %w", path, err)
	}
	defer file.Close()

	if err := w.WriteHistory(file, net); err != nil {
		return "", err
	}
	return path, file.Close()
}

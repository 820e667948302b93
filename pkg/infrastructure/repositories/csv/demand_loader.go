package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// DemandSeries holds an explicit demand sequence per node and product
type DemandSeries map[entities.NodeID]map[entities.ProductID][]float64

// Loader handles loading demand data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDemandSeries loads a demand history from a CSV file with columns
// period,node,product,demand. Missing periods are zero. A product of -1
// means the node's sole product.
func (l *Loader) LoadDemandSeries(filename string) (DemandSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open demand file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	expectedHeader := []string{"period", "node", "product", "demand"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("demand CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	series := make(DemandSeries)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("demand CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		period, node, product, demand, err := parseDemandRow(record)
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}

		if series[node] == nil {
			series[node] = make(map[entities.ProductID][]float64)
		}
		values := series[node][product]
		for len(values) <= period {
			values = append(values, 0)
		}
		values[period] += demand
		series[node][product] = values
	}

	return series, nil
}

func parseDemandRow(record []string) (period int, node entities.NodeID, product entities.ProductID, demand float64, err error) {
	period, err = strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil || period < 0 {
		return 0, 0, 0, 0, fmt.Errorf("invalid period: %s", record[0])
	}
	n, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil || n < 0 {
		return 0, 0, 0, 0, fmt.Errorf("invalid node: %s", record[1])
	}
	p, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil || p < -1 {
		return 0, 0, 0, 0, fmt.Errorf("invalid product: %s", record[2])
	}
	demand, err = parseQuantity(strings.TrimSpace(record[3]))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid demand: %s", record[3])
	}
	if demand < 0 {
		return 0, 0, 0, 0, fmt.Errorf("demand cannot be negative: %s", record[3])
	}
	return period, entities.NodeID(n), entities.ProductID(p), demand, nil
}

// ApplyDemandSeries installs each series as a deterministic demand source.
// Unknown nodes or products are an error.
func ApplyDemandSeries(net *entities.Network, series DemandSeries) error {
	nodeIDs := make([]entities.NodeID, 0, len(series))
	for id := range series {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	for _, id := range nodeIDs {
		node, ok := net.Node(id)
		if !ok {
			return fmt.Errorf("demand series references unknown node %d", id)
		}
		for product, values := range series[id] {
			source := &entities.DemandSource{Type: entities.DemandDeterministic, List: values}
			if product == -1 {
				node.Attributes.Demand = source
				continue
			}
			if _, ok := node.Product(product); !ok {
				return fmt.Errorf("demand series references product %d not handled by node %d", product, id)
			}
			attrs := node.ProductAttributes[product]
			if attrs == nil {
				attrs = &entities.Attributes{}
			}
			attrs.Demand = source
			node.SetProductAttributes(product, attrs)
		}
	}
	return nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

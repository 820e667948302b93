// Package yamlfile loads network instances from YAML documents
package yamlfile

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/invsim/pkg/domain/entities"
	"github.com/vsinha/invsim/pkg/domain/repositories"
	"github.com/vsinha/invsim/pkg/infrastructure/distributions"
)

var validate = validator.New()

// NetworkRepository serves networks described by a YAML file. The file is
// read once; every LoadNetwork call builds a fresh network from it.
type NetworkRepository struct {
	doc *Document
}

// NewNetworkRepository reads and validates the document at path
func NewNetworkRepository(path string) (*NetworkRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// build once up front so structural errors surface here
	if _, err := Build(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &NetworkRepository{doc: doc}, nil
}

// LoadNetwork builds a new network from the document
func (r *NetworkRepository) LoadNetwork() (*entities.Network, error) {
	return Build(r.doc)
}

// Parse decodes data and builds the network it describes
func Parse(data []byte) (*entities.Network, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// ParseDocument decodes and validates a document without building it
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse network document: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, formatValidationError(err)
	}
	return &doc, nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	e := validationErrs[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s: is required", e.Namespace())
	case "min":
		msg = fmt.Sprintf("%s: must have at least %s entries", e.Namespace(), e.Param())
	case "gte", "lte":
		msg = fmt.Sprintf("%s: must be %s %s, got %v", e.Namespace(), e.Tag(), e.Param(), e.Value())
	case "oneof":
		msg = fmt.Sprintf("%s: must be one of [%s], got %q", e.Namespace(), e.Param(), e.Value())
	default:
		msg = fmt.Sprintf("%s: failed %s validation", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidParameter, msg)
}

// Build constructs a network from a validated document
func Build(doc *Document) (*entities.Network, error) {
	net := entities.NewNetwork(doc.Name)

	products := make(map[int]*entities.Product, len(doc.Products))
	for _, pd := range doc.Products {
		if _, dup := products[pd.ID]; dup {
			return nil, fmt.Errorf("duplicate product %d", pd.ID)
		}
		p, err := entities.NewProduct(entities.ProductID(pd.ID), pd.Name)
		if err != nil {
			return nil, err
		}
		attrs, err := buildAttributes(pd.AttributesDoc)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", pd.ID, err)
		}
		p.Attributes = *attrs
		products[pd.ID] = p
	}

	// bill of materials may reference products declared later
	for _, pd := range doc.Products {
		for _, rm := range sortedKeys(pd.BillOfMaterials) {
			if _, ok := products[rm]; !ok {
				return nil, fmt.Errorf("product %d: bill of materials references unknown product %d", pd.ID, rm)
			}
			if err := products[pd.ID].SetBillOfMaterials(entities.ProductID(rm), pd.BillOfMaterials[rm]); err != nil {
				return nil, fmt.Errorf("product %d: %w", pd.ID, err)
			}
		}
	}

	for _, nd := range doc.Nodes {
		node, err := buildNode(nd, products)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Edges {
		if err := net.AddEdge(entities.NodeID(e.From), entities.NodeID(e.To)); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}
	return net, nil
}

func buildNode(nd NodeDoc, products map[int]*entities.Product) (*entities.Node, error) {
	node, err := entities.NewNode(entities.NodeID(nd.ID), nd.Name, nd.OrderLeadTime, nd.ShipmentLeadTime)
	if err != nil {
		return nil, err
	}

	for _, id := range nd.Products {
		p, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("unknown product %d", id)
		}
		if err := node.AddProduct(p); err != nil {
			return nil, err
		}
	}

	attrs, err := buildAttributes(nd.AttributesDoc)
	if err != nil {
		return nil, err
	}
	policy := attrs.Policy
	attrs.Policy = nil
	node.Attributes = *attrs
	node.SetPolicy(policy)

	for _, id := range sortedKeys(nd.ProductAttributes) {
		if _, ok := node.Product(entities.ProductID(id)); !ok {
			return nil, fmt.Errorf("attributes given for product %d which the node does not handle", id)
		}
		pa, err := buildAttributes(nd.ProductAttributes[id])
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", id, err)
		}
		node.SetProductAttributes(entities.ProductID(id), pa)
	}

	if d := nd.Disruption; d != nil {
		proc, err := entities.NewDisruptionProcess(
			entities.DisruptionModel(d.Model),
			entities.DisruptionType(d.Type),
			d.DisruptionProbability,
			d.RecoveryProbability,
			d.DisruptedPeriods,
		)
		if err != nil {
			return nil, fmt.Errorf("disruption: %w", err)
		}
		proc.InitiallyDisrupted = d.InitiallyDisrupted
		proc.Reset()
		node.Disruption = proc
	}
	return node, nil
}

func buildAttributes(ad AttributesDoc) (*entities.Attributes, error) {
	attrs := &entities.Attributes{
		HoldingCost:           ad.HoldingCost,
		StockoutCost:          ad.StockoutCost,
		InTransitHoldingCost:  ad.InTransitHoldingCost,
		InitialInventoryLevel: ad.InitialInventoryLevel,
		InitialOrders:         ad.InitialOrders,
		InitialShipments:      ad.InitialShipments,
		OrderCapacity:         ad.OrderCapacity,
	}

	if d := ad.Demand; d != nil {
		ds, err := distributions.NewDemandSource(entities.DemandType(d.Type), distributions.Params{
			Mean:          d.Mean,
			StdDev:        d.StdDev,
			Lo:            d.Lo,
			Hi:            d.Hi,
			Values:        d.Values,
			Probabilities: d.Probabilities,
			R:             d.R,
			P:             d.P,
			RoundToInt:    d.RoundToInt,
		})
		if err != nil {
			return nil, fmt.Errorf("demand: %w", err)
		}
		attrs.Demand = ds
	}

	if p := ad.Policy; p != nil {
		policy, err := entities.NewPolicy(entities.PolicyType(p.Type), p.BaseStockLevel, p.ReorderPoint, p.OrderQuantity, p.OrderUpTo)
		if err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
		attrs.Policy = policy
	}
	return attrs, nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Verify interface compliance
var _ repositories.NetworkRepository = (*NetworkRepository)(nil)

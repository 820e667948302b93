package services

import (
	"errors"
	"fmt"

	"github.com/vsinha/invsim/pkg/domain/entities"
)

// NetworkValidator checks a network before simulation starts
type NetworkValidator struct{}

// NewNetworkValidator creates a new network validator
func NewNetworkValidator() *NetworkValidator {
	return &NetworkValidator{}
}

// ValidationResult contains the results of network validation
type ValidationResult struct {
	HasCycles  bool
	CyclePaths [][]entities.NodeID
	// Problems holds one typed error per finding, in node order
	Problems []error
	Errors   []string
}

// Valid reports whether no problem was found
func (r *ValidationResult) Valid() bool {
	return len(r.Problems) == 0
}

// Err returns the first problem found, or nil
func (r *ValidationResult) Err() error {
	if len(r.Problems) == 0 {
		return nil
	}
	return r.Problems[0]
}

func (r *ValidationResult) add(err error) {
	r.Problems = append(r.Problems, err)
	r.Errors = append(r.Errors, err.Error())
}

// ValidateNetwork performs every pre-flight check: cycles, policy presence and
// ownership, and parameter ranges of policies, demand sources and disruptions.
func (v *NetworkValidator) ValidateNetwork(net *entities.Network) *ValidationResult {
	result := &ValidationResult{
		CyclePaths: make([][]entities.NodeID, 0),
		Problems:   make([]error, 0),
		Errors:     make([]string, 0),
	}

	cycles := v.detectCycles(net)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.add(fmt.Errorf("%w: %v", entities.ErrCycle, cycle))
	}

	for _, n := range net.Nodes() {
		if n.Disruption != nil {
			if err := n.Disruption.Validate(); err != nil {
				result.add(&entities.ConfigError{NodeID: n.ID, Attribute: "disruption_process", Err: err})
			}
		}
		for _, p := range n.Products() {
			v.validateNodeProduct(n, p, result)
		}
	}

	return result
}

func (v *NetworkValidator) validateNodeProduct(n *entities.Node, p *entities.Product, result *ValidationResult) {
	var pid *entities.ProductID
	if !p.IsDummy {
		id := p.ID
		pid = &id
	}

	policy, ok := n.InventoryPolicy(p)
	if !ok {
		result.add(&entities.ConfigError{NodeID: n.ID, ProductID: pid, Attribute: string(entities.AttrInventoryPolicy), Err: entities.ErrMissingPolicy})
	} else {
		if !policy.Owner().Matches(n.ID, pid) {
			result.add(&entities.ConfigError{NodeID: n.ID, ProductID: pid, Attribute: string(entities.AttrInventoryPolicy), Err: entities.ErrPolicyOwnerMismatch})
		}
		if err := policy.Validate(); err != nil {
			result.add(&entities.ConfigError{NodeID: n.ID, ProductID: pid, Attribute: string(entities.AttrInventoryPolicy), Err: err})
		}
	}

	if ds, ok := n.DemandSource(p); ok {
		if err := ds.Validate(); err != nil {
			result.add(&entities.ConfigError{NodeID: n.ID, ProductID: pid, Attribute: string(entities.AttrDemandSource), Err: err})
		}
	}

	for _, attr := range []entities.AttributeName{entities.AttrHoldingCost, entities.AttrStockoutCost, entities.AttrInTransitHoldingCost, entities.AttrOrderCapacity} {
		raw, ok := n.Attribute(attr, p)
		if !ok {
			continue
		}
		if value, isFloat := raw.(float64); isFloat && value < 0 {
			err := fmt.Errorf("%w: %s cannot be negative, got %g", entities.ErrInvalidParameter, attr, value)
			result.add(&entities.ConfigError{NodeID: n.ID, ProductID: pid, Attribute: string(attr), Err: err})
		}
	}
}

// detectCycles uses DFS to find cycles in the network
func (v *NetworkValidator) detectCycles(net *entities.Network) [][]entities.NodeID {
	visited := make(map[entities.NodeID]bool)
	recursionStack := make(map[entities.NodeID]bool)
	cycles := make([][]entities.NodeID, 0)

	for _, id := range net.NodeIDs() {
		if !visited[id] {
			path := make([]entities.NodeID, 0)
			v.dfsDetectCycle(net, id, visited, recursionStack, path, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *NetworkValidator) dfsDetectCycle(
	net *entities.Network,
	current entities.NodeID,
	visited map[entities.NodeID]bool,
	recursionStack map[entities.NodeID]bool,
	path []entities.NodeID,
	cycles *[][]entities.NodeID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, succ := range net.Successors(current) {
		if !visited[succ] {
			v.dfsDetectCycle(net, succ, visited, recursionStack, path, cycles)
		} else if recursionStack[succ] {
			for i, id := range path {
				if id == succ {
					cycle := make([]entities.NodeID, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, succ) // close the cycle
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}

// IsConfigError reports whether err is a pre-flight configuration problem
func IsConfigError(err error) bool {
	var cfg *entities.ConfigError
	return errors.As(err, &cfg) ||
		errors.Is(err, entities.ErrCycle) ||
		errors.Is(err, entities.ErrMissingPolicy) ||
		errors.Is(err, entities.ErrPolicyOwnerMismatch)
}

package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when the network contains a directed cycle
	ErrCycle = errors.New("network contains a directed cycle")
	// ErrMissingPolicy is returned when a node has no resolvable inventory policy
	ErrMissingPolicy = errors.New("no inventory policy")
	// ErrPolicyOwnerMismatch is returned when a policy's owner does not match where it is attached
	ErrPolicyOwnerMismatch = errors.New("policy owner mismatch")
	// ErrInvalidParameter is returned for out-of-range numeric parameters
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrConsistency signals an internal invariant violation during simulation
	ErrConsistency = errors.New("internal consistency check failed")
)

// ConfigError describes a configuration problem detected before period 0
type ConfigError struct {
	NodeID    NodeID
	ProductID *ProductID
	Attribute string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.ProductID != nil {
		return fmt.Sprintf("node %s, product %d, %s: %v", e.NodeID, *e.ProductID, e.Attribute, e.Err)
	}
	return fmt.Sprintf("node %s, %s: %v", e.NodeID, e.Attribute, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports a violated invariant. It always indicates a logic
// defect in the simulator, never a problem with user input.
type ConsistencyError struct {
	NodeID    NodeID
	ProductID ProductID
	Period    int
	Check     string
	Detail    string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: node %s, product %d, period %d: %s (%s)",
		ErrConsistency, e.NodeID, e.ProductID, e.Period, e.Check, e.Detail)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

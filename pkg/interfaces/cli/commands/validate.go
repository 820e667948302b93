package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/invsim/pkg/domain/services"
	"github.com/vsinha/invsim/pkg/infrastructure/repositories/yamlfile"
	"github.com/vsinha/invsim/pkg/interfaces/cli/output"
)

// ErrInvalidNetwork is returned by validate when the instance has problems
var ErrInvalidNetwork = errors.New("network is invalid")

// NewValidateCommand creates the validate command
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <instance.yaml>",
		Short: "Check an instance without simulating it",
		Long: `Parse a network instance and run the pre-flight checks a simulation would:
schema, cycles, policy presence and parameter ranges. Every problem found is
reported, not only the first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, instance string) error {
	data, err := os.ReadFile(instance)
	if err != nil {
		return fmt.Errorf("failed to read instance: %w", err)
	}

	out := rootOpts.outputConfig(cmd)

	net, err := yamlfile.Parse(data)
	if err != nil {
		if err := output.Validation(0, []string{err.Error()}, out); err != nil {
			return err
		}
		return ErrInvalidNetwork
	}

	result := services.NewNetworkValidator().ValidateNetwork(net)
	rootOpts.Logger.Debug("validated network", "instance", instance, "nodes", len(net.Nodes()), "problems", len(result.Errors))

	if err := output.Validation(len(net.Nodes()), result.Errors, out); err != nil {
		return err
	}
	if !result.Valid() {
		return ErrInvalidNetwork
	}
	return nil
}

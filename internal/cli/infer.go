package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/apperrors"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// inferCommand is the "infer" parent command: // exact_well_formed_sub and overapproximated_well_formed_sub.
func (c *CLI) inferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Infer a well-formed subscription for a set of interfacing protocols",
	}
	cmd.AddCommand(c.inferExactCommand())
	cmd.AddCommand(c.inferOverapproxCommand())
	return cmd
}

// inferExactCommand is "infer exact": exact_well_formed_sub.
func (c *CLI) inferExactCommand() *cobra.Command {
	var subPath, output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "exact <protocols.json>",
		Short: "Compute the minimal well-formed subscription via explicit composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			seed, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.ExactWellFormedSub(cmd.Context(), protos, seed)
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "seed subscription JSON file (default: empty seed)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// inferOverapproxCommand is "infer overapprox": // overapproximated_well_formed_sub.
func (c *CLI) inferOverapproxCommand() *cobra.Command {
	var subPath, output, granularity string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "overapprox <protocols.json>",
		Short: "Compute a sound, possibly non-minimal subscription without explicit composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperrors.ValidateGranularity(granularity); err != nil {
				return err
			}
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			seed, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.OverapproximatedWellFormedSub(cmd.Context(), protos, seed, swarm.Granularity(granularity))
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "seed subscription JSON file (default: empty seed)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", string(c.Config.Granularity), "Fine, Medium, Coarse, or TwoStep")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

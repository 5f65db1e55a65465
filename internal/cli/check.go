package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// checkCommand is the "check" parent command: // check_composed_swarm and check_composed_projection.
func (c *CLI) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check well-formedness of composed protocols or a projected machine",
	}
	cmd.AddCommand(c.checkSwarmCommand())
	cmd.AddCommand(c.checkProjectionCommand())
	return cmd
}

// checkSwarmCommand is "check swarm": check_composed_swarm.
func (c *CLI) checkSwarmCommand() *cobra.Command {
	var subPath string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "swarm <protocols.json>",
		Short: "Check that a subscription is well-formed for a set of interfacing protocols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			subs, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.CheckComposedSwarm(cmd.Context(), protos, subs)
			if !result.OK() {
				for _, e := range result.Errors {
					c.Logger.Error(e)
				}
				return fmt.Errorf("well-formedness check failed with %d error(s)", len(result.Errors))
			}
			c.Logger.Info("well-formed")
			return nil
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// checkProjectionCommand is "check projection": // check_composed_projection.
func (c *CLI) checkProjectionCommand() *cobra.Command {
	var subPath, role string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "projection <protocols.json> <machine.json>",
		Short: "Check that a user-supplied machine is equivalent to role's synthesized projection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			machine, err := readMachine(args[1])
			if err != nil {
				return err
			}
			subs, err := readSubscription(subPath)
			if err != nil {
				return err
			}
			if role == "" {
				return fmt.Errorf("--role is required")
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.CheckComposedProjection(cmd.Context(), protos, subs, ident.Role(role), machine)
			if !result.OK() {
				for _, e := range result.Errors {
					c.Logger.Error(e)
				}
				return fmt.Errorf("projection equivalence check failed with %d error(s)", len(result.Errors))
			}
			c.Logger.Info("equivalent", "role", role)
			return nil
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().StringVar(&role, "role", "", "role the supplied machine claims to implement (required)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

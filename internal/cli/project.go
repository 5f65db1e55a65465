package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// projectCommand is "project": revised_projection — projects a single
// protocol onto a role, without any composition step.
func (c *CLI) projectCommand() *cobra.Command {
	var subPath, output, role string
	var minimize bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "project <protocol.json>",
		Short: "Project a single protocol onto a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role == "" {
				return fmt.Errorf("--role is required")
			}
			proto, err := readProtocol(args[0])
			if err != nil {
				return err
			}
			subs, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.RevisedProjection(cmd.Context(), proto, subs, ident.Role(role), minimize)
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().StringVar(&role, "role", "", "role to project onto (required)")
	cmd.Flags().BoolVar(&minimize, "minimize", c.Config.Minimize, "minimize the projected machine (Hopcroft partition refinement)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// projectCombineCommand is "project-combine": project_combine —
// projects every protocol onto a role independently, then composes the
// results.
func (c *CLI) projectCombineCommand() *cobra.Command {
	var subPath, output, role string
	var minimize bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "project-combine <protocols.json>",
		Short: "Project a set of interfacing protocols onto a role via per-protocol projection and composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role == "" {
				return fmt.Errorf("--role is required")
			}
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			subs, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.ProjectCombine(cmd.Context(), protos, subs, ident.Role(role), minimize)
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().StringVar(&role, "role", "", "role to project onto (required)")
	cmd.Flags().BoolVar(&minimize, "minimize", c.Config.Minimize, "minimize the projected machine (Hopcroft partition refinement)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// projectionInfoCommand is "projection-info": // projection_information — role's projection enriched with the branch map
// and, when a user machine is supplied, adaptation state-correspondence
// metadata.
func (c *CLI) projectionInfoCommand() *cobra.Command {
	var subPath, output, role, userMachinePath string
	var minimize bool
	var k int

	cmd := &cobra.Command{
		Use:   "projection-info <protocols.json>",
		Short: "Compute role's projection, branch-reachability map, and (optionally) adaptation metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role == "" {
				return fmt.Errorf("--role is required")
			}
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			subs, err := readSubscription(subPath)
			if err != nil {
				return err
			}

			var userMachine *swarm.MachineType
			if userMachinePath != "" {
				mt, err := readMachine(userMachinePath)
				if err != nil {
					return err
				}
				userMachine = &mt
			}

			// projection_information takes an unbounded user machine, so it
			// always recomputes (pkg/api/runner_projection.go) — no --no-cache
			// flag to offer here.
			runner := c.newRunner(cmd.Context(), false)
			result := runner.ProjectionInformation(cmd.Context(), ident.Role(role), protos, k, subs, userMachine, minimize)
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().StringVar(&role, "role", "", "role to project onto (required)")
	cmd.Flags().StringVar(&userMachinePath, "machine", "", "user-supplied machine to adapt against (optional)")
	cmd.Flags().IntVar(&k, "k", 1, "index of the member protocol whose projection the machine is composed with first (out of range means 0)")
	cmd.Flags().BoolVar(&minimize, "minimize", c.Config.Minimize, "minimize the projected machine")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

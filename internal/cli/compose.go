package cli

import (
	"github.com/spf13/cobra"
)

// composeCommand is "compose": compose_protocols, returning the
// explicit pair-state product graph of the interfacing protocols.
func (c *CLI) composeCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "compose <protocols.json>",
		Short: "Compute the explicit composition of a set of interfacing protocols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			protos, err := readProtocols(args[0])
			if err != nil {
				return err
			}
			runner := c.newRunner(cmd.Context(), noCache)
			result := runner.ComposeProtocols(cmd.Context(), protos)
			return writeJSON(result, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

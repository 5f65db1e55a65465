package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/tui"
)

// tuiCommand is "tui": launches the read-only bubbletea explorer (internal/tui).
func (c *CLI) tuiCommand() *cobra.Command {
	var subPath string
	var minimize bool

	cmd := &cobra.Command{
		Use:   "tui <protocols.json>",
		Short: "Explore a set of interfacing protocols interactively: pick a role, view its projection and branch map",
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

			runner := c.newRunner(cmd.Context(), false)
			model := tui.New(cmd.Context(), runner, protos, subs, minimize)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&subPath, "subscription", "", "subscription JSON file (default: empty seed)")
	cmd.Flags().BoolVar(&minimize, "minimize", c.Config.Minimize, "minimize projected machines")
	return cmd
}

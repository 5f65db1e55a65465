package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/store"
)

// historyCommand is "history": lists recent analysis runs from pkg/store,
// the CLI counterpart to internal/httpapi's "GET /runs" endpoint.
func (c *CLI) historyCommand() *cobra.Command {
	var role string
	var limit int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analysis runs from the run-history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Mongo.URI == "" {
				return fmt.Errorf("run history is disabled: set [mongo] uri in the config file")
			}
			s, err := store.New(cmd.Context(), store.Config{
				URI:        c.Config.Mongo.URI,
				Database:   c.Config.Mongo.Database,
				Collection: c.Config.Mongo.Collection,
			})
			if err != nil {
				return fmt.Errorf("connect to run history store: %w", err)
			}
			defer s.Close(cmd.Context())

			var records any
			if role != "" {
				records, err = s.ByRole(cmd.Context(), role, limit)
			} else {
				records, err = s.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			return writeJSON(records, "")
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "filter by role")
	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum number of records to show")
	return cmd
}

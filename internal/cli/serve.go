package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/httpapi"
)

// serveCommand is "serve": launches internal/httpapi's REST transport over
// the same api.Runner every other command uses.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the swarmcheck REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.HTTP.Addr
			}
			runner := c.newRunner(cmd.Context(), noCache)
			handler := httpapi.NewServer(runner, c.Logger).Routes()
			c.Logger.Info("listening", "addr", addr)
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/internal/server"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// serveCommand runs the HTTP deck server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live decks over HTTP",
		Long: `Serve exposes decks as JSON resources. Clients create a deck, feed it
touch, fling and tick events and read back the render plan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			observability.SetHTTPHooks(httpLogHooks{logger: c.Logger.WithPrefix("http")})
			srv := server.New(cfg,
				server.WithLogger(c.Logger),
				server.WithCache(store),
			)
			printInfo("Serving decks on %s", cfg.Server.Addr)
			printDetail("max %d sessions, idle timeout %s", cfg.Server.MaxSessions, cfg.Server.SessionTTL)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache rendered frames")

	return cmd
}

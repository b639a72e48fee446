package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/internal/server"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host live scenes over HTTP",
		Long: `Serve keeps scenes live in memory and lets clients drive them over HTTP.

  POST   /scenes              upload a scene (?format=json|toml|yaml)
  GET    /scenes/{id}         current SVG
  GET    /scenes/{id}/scene   current geometry
  POST   /scenes/{id}/events  click, contextmenu or drag; returns notifications
  PUT    /scenes/{id}/size    resize the viewport
  POST   /scenes/{id}/reset   restore the original geometry
  DELETE /scenes/{id}         drop the session

Idle sessions expire after serve.session_ttl from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Serve.Listen
			}
			return runServe(cmd.Context(), listen, cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func runServe(ctx context.Context, listen string, cfg Config) error {
	logger := loggerFromContext(ctx)

	ttl := cfg.Serve.SessionTTL.Duration
	store := session.NewMemoryStore(ttl)
	defer store.Close()

	h := server.NewHandler(store, logger,
		topology.WithContext(ctx),
		topology.WithBlinkPeriod(cfg.BlinkPeriod.Duration),
	)
	go h.RunCleanup(ctx, max(ttl/4, time.Second))

	return server.Serve(ctx, listen, h.Routes(), logger)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikicollage/internal/server"
)

// serveCommand creates the command that runs the web collage.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, boardKind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collage page and JSON API",
		Long: `Serve the collage page. Each visitor gets a session with its own board
and scale range. With --board redis, boards live in Redis and are shared by
every replica pointing at the same instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if boardKind != "" {
				cfg.Server.Board = boardKind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			boards, closer, err := server.BoardsFromConfig(ctx, cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			srv := server.New(server.Options{
				Config: cfg,
				Source: newSource(cfg),
				Boards: boards,
				Logger: logger,
			})
			printInfo("Serving collage on %s (board: %s)", StyleValue.Render(cfg.Server.Addr), cfg.Server.Board)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&boardKind, "board", "", "board backend: memory or redis (default from config)")
	return cmd
}

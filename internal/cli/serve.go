package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/bridge"
	"github.com/matzehuels/spacemark/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP bridge.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve spacing commands over HTTP",
		Long: `Serve spacing commands over HTTP.

A panel posts the current scene to POST /commands/{id} and gets the
annotations back as JSON or a rendered preview:

  curl -X POST --data-binary @checkout.json \
    'http://127.0.0.1:7878/commands/horizontal-fixed?format=svg'

GET /commands lists the command set and GET /health reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config().Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:7878)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var defaults pipeline.Options
	c.config().Apply(&defaults)

	printInfo("Listening on %s", StyleHighlight.Render("http://"+addr))
	printNextStep("List commands", "curl http://"+addr+"/commands")

	err = bridge.New(runner, defaults, c.Logger).ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

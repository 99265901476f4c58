package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API",
		Long:  "Start an HTTP server exposing listings, favorites, preferences and inquiries as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: config port, 8080)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Port
	}

	srv := web.NewServer(web.Deps{
		Browse:    a.browse,
		Favorites: a.favorites,
		Prefs:     a.prefs,
		Inquiries: a.inquiries,
	}, a.cfg.CORSOrigins)

	return srv.ListenAndServe(ctx, port)
}

package main

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/df07/go-implicit-raytracer/web/server"
)

func main() {
	var (
		port     int
		sceneDir string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:          "raymarch-web",
		Short:        "Serve the renderer over HTTP with progressive tile streaming",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return server.NewServer(port, sceneDir, logger).Start(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVar(&sceneDir, "scenes", "scenes", "Directory with scene files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

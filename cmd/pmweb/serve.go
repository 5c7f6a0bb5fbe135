package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/projectman/pmweb/internal/project"
	"github.com/projectman/pmweb/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port    int
		host    string
		dir     string
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a ProjectMan project",
		Long: `Serve the base page, /api/config and the trigger hub for the
ProjectMan project found in the project directory or one of its parents.

Examples:
  pmweb serve
  pmweb serve --port=9000 --metrics
  pmweb serve --dir=~/work/hub`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if dir != "" {
				cfg.Server.ProjectDir = dir
			}
			if metrics {
				cfg.Server.Metrics = true
			}
			if tracing {
				cfg.Server.Tracing = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			root, proj, err := project.Discover(cfg.ProjectPath())
			if err != nil {
				return err
			}

			printBanner()
			fmt.Println("  serve")
			fmt.Println()
			info("Project:  %s (%s)", proj.Name, root)
			if proj.Hub {
				info("Hub:      %d projects", len(proj.Projects))
			}
			info("Address:  http://%s", cfg.Address())
			if cfg.Server.Metrics {
				info("Metrics:  http://%s%s", cfg.Address(), cfg.Server.MetricsPath)
			}
			fmt.Println()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, root, proj).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from pmweb.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pmweb.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to start project discovery from")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Record OpenTelemetry server spans")

	return cmd
}

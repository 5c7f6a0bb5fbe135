package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/projectman/pmweb/internal/config"
	"github.com/projectman/pmweb/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┬ ┬┌─┐┌┐
  ├─┘│││││││├┤ ├┴┐
  ┴  ┴ ┴└┴┘└─┘└─┘
`

// Global flags.
var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pmweb",
		Short: "ProjectMan web runtime",
		Long: `pmweb serves a ProjectMan project and drives its pages headlessly.

The page runtime coordinates three things on every ProjectMan page:

  • the light/dark theme preference
  • toast notifications carried in HX-Trigger headers
  • the brand and hub project selector from /api/config`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to pmweb.json (default: ./pmweb.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		visitCmd(),
		themeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads --config when given, otherwise pmweb.json in the
// working directory, falling back to defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.LoadFromWorkingDir()
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// printBanner prints the pmweb banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

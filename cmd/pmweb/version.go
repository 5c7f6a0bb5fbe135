package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/projectman/pmweb/internal/config"
	"github.com/projectman/pmweb/pkg/page"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and runtime settings",
		Long: `Print the pmweb build and the page runtime settings the active
pmweb.json resolves to: where AppConfig is fetched from, where the theme
preference is stored and how long toasts stay on screen.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(buildVersion())
				return
			}

			printBanner()
			cfg, err := loadConfig()
			if err != nil {
				warn("config: %v", err)
				cfg = nil
			}
			writeVersion(os.Stdout, cfg)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")

	return cmd
}

// buildVersion prefers the -ldflags version, then the module version
// recorded by go install.
func buildVersion() string {
	if version != "dev" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

func writeVersion(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "\n  pmweb %s (commit %s, built %s)\n", buildVersion(), commit, date)
	fmt.Fprintf(w, "  %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if cfg == nil {
		return
	}

	source := "defaults"
	if cfg.Path() != "" {
		source = cfg.Path()
	}
	fmt.Fprintf(w, "  Settings:       %s\n", source)
	fmt.Fprintf(w, "  App config:     %s\n", cfg.Client.ConfigEndpoint)
	fmt.Fprintf(w, "  Trigger stream: %s\n", page.TriggerPath)
	fmt.Fprintf(w, "  Theme store:    %s\n", storageSummary(cfg))
	fmt.Fprintf(w, "  Toasts:         %s visible, %s fade\n", cfg.ToastDisplay(), cfg.ToastFade())
	fmt.Fprintln(w)
}

func storageSummary(cfg *config.Config) string {
	sc := cfg.Client.Storage
	switch sc.Backend {
	case config.BackendFile:
		return "file " + cfg.StoragePath()
	case config.BackendS3:
		s := "s3://" + sc.Bucket + "/" + sc.Prefix
		if sc.Endpoint != "" {
			s += " via " + sc.Endpoint
		}
		return s
	}
	return config.BackendMemory
}

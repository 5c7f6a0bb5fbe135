package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/projectman/pmweb/pkg/page"
)

func visitCmd() *cobra.Command {
	var (
		toggle    bool
		selectTo  string
		listenFor time.Duration
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "visit [url]",
		Short: "Load a page headlessly and print it",
		Long: `Load a ProjectMan page without a browser: apply the saved theme,
compose the navigation from /api/config and print the resulting HTML.

The URL defaults to the client.baseURL from pmweb.json.

Examples:
  pmweb visit
  pmweb visit http://127.0.0.1:8000/?project=alpha --pretty
  pmweb visit --toggle-theme
  pmweb visit --listen=30s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			target := cfg.Client.BaseURL + "/"
			if len(args) == 1 {
				target = args[0]
			}

			var opts []page.Option
			if pretty {
				opts = append(opts, page.WithPrettyHTML())
			}
			p, err := page.New(cfg, target, opts...)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if res := p.Load(ctx); !res.Applied {
				warn("navigation not configured: %s%s unavailable", target, cfg.Client.ConfigEndpoint)
			}

			if toggle {
				state := p.ToggleTheme(ctx)
				if _, err := p.Post(ctx, "/api/theme", url.Values{"theme": {string(state)}}); err != nil {
					warn("theme not reported to server: %v", err)
				}
			}

			if cmd.Flags().Changed("project") {
				if !p.SelectProject(selectTo) {
					warn("project %q is not in the hub selector", selectTo)
				} else if h := p.Location().History(); len(h) > 0 {
					fmt.Fprintf(os.Stderr, "navigated to %s\n", h[len(h)-1])
				}
			}

			toasts := newToastReporter()
			if listenFor > 0 {
				listen(ctx, p, listenFor, toasts)
			}
			toasts.report(p)

			html, err := p.HTML()
			if err != nil {
				return err
			}
			fmt.Println(html)
			return nil
		},
	}

	cmd.Flags().BoolVar(&toggle, "toggle-theme", false, "Toggle the theme after loading")
	cmd.Flags().StringVar(&selectTo, "project", "", "Pick a project in the hub selector (\"\" for the hub)")
	cmd.Flags().DurationVar(&listenFor, "listen", 0, "Show toasts pushed by the server for this long")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the printed HTML")

	return cmd
}

// listen connects the page to the trigger hub for d, reporting pushed
// toasts as they arrive.
func listen(ctx context.Context, p *page.Page, d time.Duration, toasts *toastReporter) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Listen(ctx) }()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-done:
			if err != nil {
				warn("trigger stream: %v", err)
			}
			return
		case <-tick.C:
			toasts.report(p)
		}
	}
}

// toastReporter prints each toast once.
type toastReporter struct {
	seen map[string]bool
}

func newToastReporter() *toastReporter {
	return &toastReporter{seen: make(map[string]bool)}
}

// report settles the page loop and prints toasts not printed yet.
func (r *toastReporter) report(p *page.Page) {
	p.Settle()
	for _, e := range p.Toasts().Entries() {
		if r.seen[e.ID] {
			continue
		}
		r.seen[e.ID] = true
		fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Kind, e.Message)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectman/pmweb/internal/errors"
	"github.com/projectman/pmweb/pkg/pref"
	"github.com/projectman/pmweb/pkg/theme"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [show|toggle|light|dark|reset]",
		Short: "Show or change the saved theme preference",
		Long: `Read or write the theme preference in the store configured by
client.storage in pmweb.json. Pages loaded with pmweb visit use it.

Examples:
  pmweb theme
  pmweb theme toggle
  pmweb theme dark
  pmweb theme reset`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"show", "toggle", string(theme.Light), string(theme.Dark), "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "show"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := pref.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return runTheme(cmd.Context(), store, cfg.Client.Storage.Backend, action)
		},
	}
	return cmd
}

func runTheme(ctx context.Context, store pref.Store, backend, action string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := pref.New(store, theme.StorageKey, theme.Light)

	current, found, err := p.Load(ctx)
	if err != nil {
		return errors.New("E120").WithDetail(backend + " store: " + theme.StorageKey).Wrap(err)
	}
	if found && !current.Valid() {
		found = false
		current = theme.Light
	}

	var next theme.State
	switch action {
	case "show":
		if !found {
			fmt.Printf("%s %s (not saved)\n", current.Icon(), current)
			return nil
		}
		fmt.Printf("%s %s\n", current.Icon(), current)
		return nil
	case "reset":
		if err := p.Reset(ctx); err != nil {
			return errors.New("E121").WithDetail(backend + " store: " + theme.StorageKey).Wrap(err)
		}
		success("Theme preference cleared")
		return nil
	case "toggle":
		next = current.Opposite()
	case string(theme.Light), string(theme.Dark):
		next = theme.State(action)
	default:
		return errors.New("E150").
			WithDetail(fmt.Sprintf("unknown theme action %q", action)).
			WithSuggestion("Use one of: show, toggle, light, dark, reset")
	}

	if err := p.Set(ctx, next); err != nil {
		return errors.New("E121").WithDetail(backend + " store: " + theme.StorageKey).Wrap(err)
	}
	success("Theme set to %s %s", next.Icon(), next)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/btcalls/newsdesk/internal/api"
	"github.com/btcalls/newsdesk/internal/config"
	"github.com/btcalls/newsdesk/internal/headlines"
	"github.com/btcalls/newsdesk/internal/imgcache"
	"github.com/btcalls/newsdesk/internal/saved"
	"github.com/btcalls/newsdesk/internal/sources"
	"github.com/btcalls/newsdesk/internal/store"
	"github.com/btcalls/newsdesk/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	key := cfg.APIKey()
	if key == "" {
		return fmt.Errorf("no API key: set %s in the environment or in a .env file next to the config", config.APIKeyEnv)
	}

	client, err := api.NewClient(cfg.API.BaseURL, key,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}))
	if err != nil {
		return fmt.Errorf("building API client: %w", err)
	}

	st, err := store.Open(config.StorePath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	srcSvc := sources.NewService(st, client, cfg.Language())
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	_, err = srcSvc.Load(ctx)
	cancel()
	if err != nil {
		// The picker still works from whatever the store already has.
		fmt.Printf("  [warn] loading sources: %v\n", err)
	}

	coord := headlines.NewCoordinator(client, srcSvc, st, headlines.Policy{
		Language:    cfg.Language(),
		PerSource:   cfg.PerSource(),
		MaxPageSize: cfg.MaxPageSize(),
		MinPageSize: cfg.MinPageSize(),
	})

	return tui.Run(tui.Options{
		Coordinator: coord,
		Sources:     srcSvc,
		Saved:       saved.NewService(st),
		Images:      imgcache.NewCache(cfg.ThumbnailMaxDimension()),
	})
}

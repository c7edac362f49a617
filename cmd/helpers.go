package cmd

import (
	"fmt"

	"github.com/marcus/tale/internal/apiclient"
	"github.com/marcus/tale/internal/config"
	"github.com/marcus/tale/internal/engage"
	"github.com/marcus/tale/internal/markers"
	"github.com/marcus/tale/internal/models"
)

// newClient builds an API client from the stored config. The token may be
// empty; callers that need auth should use newService instead.
func newClient() (*apiclient.Client, *models.Config, error) {
	cfg, err := config.Load(getBaseDir())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = config.DefaultServerURL
	}
	return apiclient.New(serverURL, cfg.Token), cfg, nil
}

// newService builds the engagement service for the logged-in user. The
// returned cleanup closes the local marker store.
func newService() (*engage.Service, func(), error) {
	client, cfg, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, fmt.Errorf("not logged in (run 'tale login')")
	}

	store, err := markers.Open(getBaseDir())
	if err != nil {
		return nil, nil, fmt.Errorf("open marker store: %w", err)
	}

	svc := engage.NewService(client, store, cfg.UserID)
	cleanup := func() { store.Close() }
	return svc, cleanup, nil
}

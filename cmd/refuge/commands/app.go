package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/config"
	"github.com/shelterhq/refuge/data/mongodb"
	"github.com/shelterhq/refuge/indexer"
	"github.com/shelterhq/refuge/logging"
	"github.com/shelterhq/refuge/search"
	"github.com/shelterhq/refuge/search/meili"
)

// app holds the wired dependencies shared by the serve and reindex commands:
// configuration, logger, the search backend and one synchronizer per entity.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	backend search.Backend
	syncs   []*indexer.Synchronizer
	cleanup func()
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCleanup, err := logging.Init(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logging.StandardLogger()

	db, dbCleanup, err := mongodb.Connect(ctx, cfg.Data.MongoDB.URI, cfg.Data.MongoDB.Database)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	client := meili.NewClient(cfg.Data.Meilisearch.Host, cfg.Data.Meilisearch.APIKey)
	backend := meili.NewBackend(client)

	syncs := make([]*indexer.Synchronizer, 0, len(catalog.All()))
	for _, desc := range catalog.All() {
		store := mongodb.NewStore(db, desc.Collection, desc.New)
		syncs = append(syncs, indexer.New(store, backend, desc, log))
	}

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		syncs:   syncs,
		cleanup: func() {
			dbCleanup()
			logCleanup()
		},
	}, nil
}

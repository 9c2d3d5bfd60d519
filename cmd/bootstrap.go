package cmd

import (
	"context"

	"data-importer/core/config"
	"data-importer/core/database"
	"data-importer/core/storage"
	"data-importer/feature/product"

	"go.uber.org/zap"
)

// buildService wires the product service from configuration. The database
// and the bucket are optional: a failure is logged and the service runs
// without them.
func buildService(ctx context.Context, cfg *config.Config, logg *zap.Logger, migrate bool) (*product.Service, error) {
	var store *product.Store
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed, every record will reconcile as NEW", zap.Error(err))
	} else {
		store = product.NewStore(conn, logg)
		if migrate {
			if err := store.Migrate(); err != nil {
				return nil, err
			}
		}
		if err := store.CheckSchema(); err != nil {
			return nil, err
		}
		logg.Info("Connected to catalogue database", zap.String("driver", cfg.Database.Driver))
	}

	var client storage.Client
	if !cfg.Storage.Enabled() {
		logg.Info("No storage endpoint configured, running without object storage")
	} else if c, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage client disabled", zap.Error(err))
	} else if err := storage.EnsureBucket(ctx, c, cfg.Storage.Bucket); err != nil {
		logg.Warn("Storage bucket unavailable, imports will not be archived", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	} else {
		client = c
	}

	svc, err := product.NewService(store, client, cfg.Storage, cfg.Import, logg)
	if err != nil {
		return nil, err
	}
	if client != nil {
		if err := svc.LoadSettings(ctx); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

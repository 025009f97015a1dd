package cli

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"studytrack/internal/backend/local"
	"studytrack/internal/config"
	"studytrack/internal/service"
	"studytrack/internal/storage"
)

// LocalFactory opens the configured store and hydrates a local tracker
// from it. It is the ServiceFactory used by the studytrack binary.
func LocalFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	cfg.Log().Debug("opened storage", zap.String("driver", cfg.Driver()), zap.String("key", cfg.Key()))

	tr, err := local.Open(ctx, store, local.Options{
		Now:    cfg.Now,
		Logger: cfg.Log(),
	})
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "load assignments")
	}
	return tr, nil
}

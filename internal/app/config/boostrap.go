package config

import (
	"context"

	"questionnaire-builder/internal/app/contracts"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Logger         *zap.Logger
	Registry       *prometheus.Registry
	Library        contracts.ValueSetLibrary
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.Logger == nil {
		return nil
	}
	b.Logger.Debug("Bootstrap.Shutdown syncing logger")
	return b.Logger.Sync()
}

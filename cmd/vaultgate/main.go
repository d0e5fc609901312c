package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/vault-gate/internal/adapter"
	"github.com/MKhiriev/vault-gate/internal/client"
	"github.com/MKhiriev/vault-gate/internal/config"
	"github.com/MKhiriev/vault-gate/internal/crypto"
	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/service"
	"github.com/MKhiriev/vault-gate/internal/store"
	"github.com/MKhiriev/vault-gate/internal/workers"
	"github.com/MKhiriev/vault-gate/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("vault-gate").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewFileLogger("vault-gate", cfg.App.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	ctx = log.WithContext(ctx)

	storages, err := store.NewStorages(ctx, cfg, crypto.NewKeyChain(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	vault, err := adapter.NewFileMediaVault(cfg.Storage.Media, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening media vault")
	}

	services := service.NewServices(storages, vault, service.NewSystemClock(), log)

	bg := workers.NewWorkers(
		workers.NewAuditPruner(services.AuditLog, services.Clock(), cfg.Workers.AuditPruneInterval),
	)
	bg.Run(ctx)
	defer bg.Stop()

	prompter := client.NewLinerPrompter()
	defer prompter.Close()

	app, err := client.NewApp(services, prompter, os.Stdout, cfg.Workers,
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	if cfg.App.Share {
		app.WithEntryPoint(models.EntryShare)
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

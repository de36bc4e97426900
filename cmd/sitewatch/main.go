package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"sitewatch/internal/config"
	"sitewatch/internal/datastore"
	"sitewatch/internal/differ"
	"sitewatch/internal/extractor"
	"sitewatch/internal/fetcher"
	"sitewatch/internal/insights"
	"sitewatch/internal/logger"
	"sitewatch/internal/monitor"
	"sitewatch/internal/notifier"
	"sitewatch/internal/notifier/discord"
	"sitewatch/internal/registry"
	"sitewatch/internal/scheduler"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.ConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config using path '%s': %v", flags.ConfigFile, err)
	}

	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] Configuration validation failed: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}
	zLogger.Info().Str("mode", gCfg.Mode).Msg("sitewatch starting")

	kvStore, err := datastore.NewSQLiteStore(gCfg.StorageConfig.SQLitePath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize key-value store")
	}
	defer kvStore.Close()

	snapshotStore := datastore.NewSnapshotStore(kvStore, zLogger)
	domainMutexes := datastore.NewDomainMutexManager(zLogger)
	urlExtractor := extractor.NewURLExtractor(zLogger)
	urlDiffer := differ.NewURLDiffer(urlExtractor, zLogger)
	contentDiffer := differ.NewContentDiffer(zLogger)
	documentFetcher := fetcher.NewFetcher(&gCfg.FetcherConfig, zLogger)
	aggregator := insights.NewAggregator(&gCfg.InsightsConfig, zLogger)

	service := monitor.NewService(
		&gCfg.MonitorConfig,
		snapshotStore,
		documentFetcher,
		urlDiffer,
		contentDiffer,
		domainMutexes,
		zLogger,
	)

	feedRegistry := registry.NewFeedRegistry(kvStore, service, zLogger)
	service.SetSourceLister(feedRegistry)

	notificationHelper := notifier.NewNotificationHelper(
		gCfg.NotificationConfig,
		discord.NewNotifier(zLogger),
		aggregator,
		zLogger,
	)
	service.SetResultSink(notificationHelper)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, initiating graceful shutdown")
		cancel()
	}()

	// Registry maintenance actions run and exit before any pass
	if flags.ListSources || flags.AddSource != "" || flags.RemoveSource != "" {
		runRegistryAction(ctx, flags, feedRegistry, zLogger)
		return
	}

	switch gCfg.Mode {
	case "automated":
		schedulerInstance, err := scheduler.NewScheduler(&gCfg.SchedulerConfig, service, zLogger)
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to initialize scheduler")
		}
		if err := schedulerInstance.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zLogger.Error().Err(err).Msg("Scheduler error")
		}
	default: // once
		result := service.RunPass(ctx, flags.Force)
		zLogger.Info().
			Int("processed", result.ProcessedCount).
			Int("errors", result.ErrorCount).
			Int("new_urls", len(result.AllNewURLs)).
			Msg("Pass finished")
	}

	zLogger.Info().Msg("sitewatch finished")
}

// runRegistryAction executes the -list/-add/-remove maintenance commands.
func runRegistryAction(ctx context.Context, flags AppFlags, feedRegistry *registry.FeedRegistry, zLogger zerolog.Logger) {
	if flags.ListSources {
		sources, err := feedRegistry.List()
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to list sources")
		}
		if len(sources) == 0 {
			fmt.Println("no sources registered")
			return
		}
		for _, source := range sources {
			fmt.Println(source)
		}
		return
	}

	if flags.AddSource != "" {
		outcome := feedRegistry.Add(ctx, flags.AddSource)
		if !outcome.Success {
			zLogger.Error().Str("message", outcome.Message).Msg("Add failed")
			os.Exit(1)
		}
		zLogger.Info().Str("message", outcome.Message).Int("new_urls", len(outcome.NewURLs)).Msg("Add succeeded")
		return
	}

	outcome := feedRegistry.Remove(flags.RemoveSource)
	if !outcome.Success {
		zLogger.Error().Str("message", outcome.Message).Msg("Remove failed")
		os.Exit(1)
	}
	zLogger.Info().Str("message", outcome.Message).Msg("Remove succeeded")
}

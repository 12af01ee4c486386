package main

import (
	"cmp"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/feedbridge/catalog-sync/app/cfg"
	"github.com/feedbridge/catalog-sync/app/feed"
	"github.com/feedbridge/catalog-sync/app/shopify"
	"github.com/feedbridge/catalog-sync/app/state"
	"github.com/feedbridge/catalog-sync/app/sync"
	"github.com/feedbridge/catalog-sync/app/throttle"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting catalog sync", "version", appCfg.Version, "shop", appCfg.Shop, "mode", appCfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg); err != nil {
		slog.Error("Sync failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg *cfg.Cfg) error {
	mode, err := sync.ParseMode(appCfg.Mode)
	if err != nil {
		return err
	}

	mapping, err := loadMapping(appCfg)
	if err != nil {
		return err
	}

	limiter := throttle.New()
	client := shopify.NewClient(appCfg.Shop, appCfg.Token, appCfg.APIVersion, appCfg.UserAgent, limiter)

	if appCfg.SetupMetafields {
		return setupMetafields(ctx, client, mapping)
	}

	db, err := state.Open(appCfg.StatePath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := state.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("State database ready", "path", appCfg.StatePath, "schema_version", version, "dirty", dirty)

	slog.Info("Parsing feed", "kind", appCfg.SourceKind, "path", appCfg.SourcePath)
	records, err := feed.Parse(appCfg.SourceKind, appCfg.SourcePath, mapping)
	if err != nil {
		return err
	}
	slog.Info("Feed parsed", "records", len(records))

	runner := sync.NewRunner(client,
		state.NewIdentityRepository(db),
		state.NewFingerprintRepository(db),
		state.NewRunRepository(db),
		mode, appCfg.ChunkSize)

	report, err := runner.Run(ctx, records)
	if err != nil {
		return err
	}

	slog.Info("Done",
		"created", report.Created, "updated", report.Updated, "unchanged", report.Unchanged,
		"skipped", report.Skipped, "failed", report.Failed)
	return nil
}

// loadMapping resolves the field mapping table. CSV feeds carry their layout
// in the header row and may run without one.
func loadMapping(appCfg *cfg.Cfg) (*feed.Mapping, error) {
	if appCfg.MappingFile != "" {
		return feed.LoadMappingFile(appCfg.MappingFile)
	}
	if appCfg.SourceKind == feed.SourceCSV {
		return nil, nil
	}
	return feed.LoadMapping(appCfg.Mapping)
}

// setupMetafields registers a definition for every metafield the mapping
// produces, so synced values show up as structured fields in the admin UI.
// Definitions that already exist are fine.
func setupMetafields(ctx context.Context, client *shopify.Client, mapping *feed.Mapping) error {
	if mapping == nil || len(mapping.Metafields) == 0 {
		slog.Info("Mapping declares no metafields, nothing to set up")
		return nil
	}

	for _, rule := range mapping.Metafields {
		def := shopify.MetafieldDefinition{
			Name:      cmp.Or(rule.Name, rule.Key),
			Namespace: rule.Namespace,
			Key:       rule.Key,
			Type:      rule.Type,
			OwnerType: "PRODUCT",
		}
		if err := client.CreateMetafieldDefinition(ctx, def); err != nil {
			if shopify.IsBenignDuplicate(err) {
				slog.Info("Metafield definition already exists", "namespace", def.Namespace, "key", def.Key)
				continue
			}
			return err
		}
		slog.Info("Created metafield definition", "namespace", def.Namespace, "key", def.Key)
	}

	return nil
}

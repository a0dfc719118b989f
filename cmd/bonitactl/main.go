// bonitactl is the data-maintenance CLI. It replaces the pile of one-off
// scripts the site accumulated with three parameterized, idempotent jobs:
// seeding the provider directory, syncing calendar events, and backfilling
// event images. Every command exits 0 on success and 1 on failure.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/bonita-forward-api/internal/service"
	"github.com/bonita-forward-api/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "bonitactl",
		Short:         "Bonita Forward data maintenance",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing env file is fine; the environment may already be set
			if err := godotenv.Load(envFile); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "loaded environment from %s\n", envFile)
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	root.AddCommand(newSeedCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newBackfillCmd())
	return root
}

// setup connects and wires the service layer for one command run
func setup() (*service.Services, *database.DB, zerolog.Logger, error) {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, log, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, nil, log, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos := repository.New(db)
	return service.NewServices(repos, cfg, log), db, log, nil
}

func newSeedCmd() *cobra.Command {
	var file string

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Seed directory data",
	}

	providers := &cobra.Command{
		Use:   "providers",
		Short: "Upsert providers from a CSV file (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, db, log, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := services.Seed.SeedCategories(cmd.Context()); err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			result, err := services.Seed.SeedProviders(cmd.Context(), f)
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				log.Warn().Int("line", e.Line).Str("field", e.Field).Str("message", e.Message).Msg("Row rejected")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d providers: %d created, %d updated, %d failed\n",
				result.Total, result.Created, result.Updated, result.Failed)
			if result.Failed > 0 && result.Created+result.Updated == 0 {
				return fmt.Errorf("all %d rows failed", result.Failed)
			}
			return nil
		},
	}
	providers.Flags().StringVar(&file, "file", "", "CSV file of providers")
	providers.MarkFlagRequired("file")

	seed.AddCommand(providers)
	return seed
}

func newSyncCmd() *cobra.Command {
	var source string

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Sync external data",
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Sync calendar events from external sources (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, db, _, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()
			if source != "" {
				result, err := services.Events.SyncSource(ctx, source)
				if err != nil {
					return err
				}
				printSync(cmd, result.Source, result.Fetched, result.Created, result.Updated, result.Pruned, result.Failed)
				return nil
			}

			results, err := services.Events.SyncAll(ctx)
			if err != nil {
				return err
			}
			for _, r := range results {
				printSync(cmd, r.Source, r.Fetched, r.Created, r.Updated, r.Pruned, r.Failed)
			}
			return nil
		},
	}
	eventsCmd.Flags().StringVar(&source, "source", "", "sync only this source")

	sync.AddCommand(eventsCmd)
	return sync
}

func printSync(cmd *cobra.Command, source string, fetched, created, updated, pruned, failed int) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: fetched %d, created %d, updated %d, pruned %d, failed %d\n",
		source, fetched, created, updated, pruned, failed)
}

func newBackfillCmd() *cobra.Command {
	var limit int

	backfill := &cobra.Command{
		Use:   "backfill",
		Short: "Backfill derived data",
	}

	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Attach stored images to events that have none (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, db, _, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := services.Events.BackfillImages(context.Background(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d events: %d updated, %d skipped, %d failed\n",
				result.Scanned, result.Updated, result.Skipped, result.Failed)
			return nil
		},
	}
	imagesCmd.Flags().IntVar(&limit, "limit", 25, "maximum events to process")

	backfill.AddCommand(imagesCmd)
	return backfill
}

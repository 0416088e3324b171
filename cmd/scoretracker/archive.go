package main

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"score-tracker/internal/config"
	"score-tracker/internal/logger"
	"score-tracker/internal/persistence"
	"score-tracker/internal/repository"
	"score-tracker/internal/service"
)

var (
	archiveOnce     bool
	archiveAt       string
	archiveEvery    time.Duration
	archiveSchedule string
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy the JSON data file into the SQLite archive",
	Long: `Replaces the contents of the SQLite archive (--db) with the current JSON data
file (--data). With --once it syncs a single time; otherwise it syncs
immediately and then on the configured schedule until interrupted.

A missing or malformed data file fails the sync and leaves the archive as it
was. The command only runs with json storage, since with sqlite storage the
archive database is the live data.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveOnce, "once", false, "sync once and exit")
	archiveCmd.Flags().StringVar(&archiveAt, "at", "", "sync daily at HH:MM local time")
	archiveCmd.Flags().DurationVar(&archiveEvery, "every", 0, "sync at a fixed interval, e.g. 6h")
	archiveCmd.Flags().StringVar(&archiveSchedule, "schedule", "", "cron spec (default SCORE_TRACKER_ARCHIVE_SCHEDULE)")
	archiveCmd.MarkFlagsMutuallyExclusive("once", "at", "every", "schedule")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := checkArchiveConfig(cfg); err != nil {
		return err
	}

	db, err := repository.NewDB(cfg.DatabaseURL, logger.ForComponent("repository"))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer repository.CloseDB(db)
	if err := repository.Ping(ctx, db); err != nil {
		return fmt.Errorf("ping archive: %w", err)
	}

	source := persistence.NewFileStore(cfg.DataFile, logger.ForComponent("persistence")).Strict()
	archiver := service.NewArchiveService(source, repository.NewSnapshotRepository(db), logger.ForComponent("archive"))

	counts, err := archiver.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "archived %d categories, %d items, %d scores into %s\n",
		counts.Categories, counts.Items, counts.Scores, cfg.DatabaseURL)
	if archiveOnce {
		return nil
	}

	scheduler := service.NewSchedulerService(time.Local, logger.ForComponent("scheduler"))
	job := archiver.Job(ctx)

	var id cron.EntryID
	switch {
	case archiveAt != "":
		id, err = scheduler.ScheduleDaily(archiveAt, job)
	case archiveEvery > 0:
		id, err = scheduler.ScheduleInterval(archiveEvery, job)
	case archiveSchedule != "":
		id, err = scheduler.Schedule(archiveSchedule, job)
	case cfg.ArchiveSchedule != "":
		id, err = scheduler.Schedule(cfg.ArchiveSchedule, job)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()
	fmt.Fprintf(out, "next sync at %s, press Ctrl+C to stop\n", scheduler.Next(id).Format(time.RFC3339))

	<-ctx.Done()
	log.Info("archive scheduler stopping")
	return nil
}

// checkArchiveConfig rejects setups where the archive would overwrite the
// live store.
func checkArchiveConfig(c config.Config) error {
	if c.Storage == config.StorageSQLite {
		return fmt.Errorf("archive needs %s storage: with %s storage %s is the live store and would be replaced by %s",
			config.StorageJSON, config.StorageSQLite, c.DatabaseURL, c.DataFile)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/domain/waitlist"
	"github.com/spf13/cobra"
)

// fallbackCmd is the parent command for the local fallback list
var fallbackCmd = &cobra.Command{
	Use:   "fallback",
	Short: "Inspect or replay the local fallback list",
	Long: `The fallback list holds a copy of every accepted submission in Redis or the
waitlist_backups table.

Available subcommands:
  list   - Print every record as one JSON object per line
  replay - Resubmit every record to the configured backend`,
}

var fallbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the fallback list as JSON lines",
	RunE:  runFallbackList,
}

var fallbackReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Resubmit the fallback list to the configured backend",
	Long: `Resubmit every fallback record through the configured backend. Entries the backend
already holds are counted as duplicates. Replayed entries are not appended to the list again.`,
	RunE: runFallbackReplay,
}

func openFallback() (*config.ApplicationConfig, waitlist.WaitlistServiceFactory, waitlist.FallbackLister, error) {
	appConfig, err := config.LoadApplicationConfiguration(logger, false)
	if err != nil {
		return nil, nil, nil, err
	}

	factory := waitlist.NewWaitlistServiceFactory(appConfig)
	lister, ok := factory.FallbackStore().(waitlist.FallbackLister)
	if !ok {
		appConfig.Cleanup()
		return nil, nil, nil, fmt.Errorf("fallback store %q cannot be read", appConfig.FallbackStore)
	}

	return appConfig, factory, lister, nil
}

func runFallbackList(cmd *cobra.Command, args []string) error {
	appConfig, _, lister, err := openFallback()
	if err != nil {
		return err
	}
	defer appConfig.Cleanup()

	records, err := lister.List(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}

func runFallbackReplay(cmd *cobra.Command, args []string) error {
	appConfig, factory, lister, err := openFallback()
	if err != nil {
		return err
	}
	defer appConfig.Cleanup()

	service := waitlist.NewWaitlistService(logger, factory.Backend(), nil, waitlist.WithLocation(appConfig.Waitlist.Location()))

	report, err := waitlist.ReplayFallback(cmd.Context(), lister, service, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", report.Failed, report.Total)
	}
	return nil
}

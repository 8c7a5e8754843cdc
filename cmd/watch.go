package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dramaradar/internal/adapters/render/watchreport"
	"github.com/bnema/dramaradar/internal/application"
	"github.com/bnema/dramaradar/internal/ports"
)

func newWatchCmd(app *app) *cobra.Command {
	var dryRun bool
	var noTelegram bool
	var asJSON bool
	var top int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Fetch the ranking once and notify about unseen titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("top") {
				app.cfg.Set("ranking.top", top)
			}
			return runWatch(cmd, app, dryRun, noTelegram, asJSON)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Persist observations but skip Telegram dispatch")
	cmd.Flags().BoolVar(&noTelegram, "no-telegram", false, "Skip Telegram dispatch")
	cmd.Flags().IntVar(&top, "top", 10, "How many ranking entries to consider (1-100)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runWatch(cmd *cobra.Command, app *app, dryRun, noTelegram, asJSON bool) error {
	extractor, err := app.newExtractor()
	if err != nil {
		return err
	}

	repo, closeStore, err := app.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	params := application.RunParams{
		DryRun:    dryRun,
		NoNotify:  noTelegram,
		SourceURL: extractor.URL(),
		Location:  app.location(),
	}
	if !dryRun && !noTelegram {
		notifier, err := app.newNotifier()
		if err != nil {
			return err
		}
		params.Notifier = notifier
	}

	service := application.NewWatchService(extractor, repo, ports.SystemClock{}, app.log)

	var report application.Report
	runCmd := func(ctx context.Context) error {
		var runErr error
		report, runErr = service.Run(ctx, params)
		return runErr
	}

	if asJSON {
		err = runCmd(cmd.Context())
	} else {
		err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), runCmd)
	}
	if err != nil {
		return fmt.Errorf("%s failure: %w", application.Classify(err), err)
	}

	return writeReportOutput(cmd, app, report, asJSON)
}

func writeReportOutput(cmd *cobra.Command, app *app, report application.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	rendered, err := watchreport.Render(report, watchreport.RenderOptions{Location: app.location()})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

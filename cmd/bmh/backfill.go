package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/notifications"
	"github.com/gabriel/bmh/internal/repository"
	"github.com/gabriel/bmh/internal/scheduler"
)

func newBackfillCmd(opts *rootOptions) *cobra.Command {
	var (
		batch  int
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Resolve metadata for library entries that have none",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			if batch <= 0 {
				batch = app.cfg.BackfillBatch
			}

			var notifier notifications.Notifier = notifications.NoopNotifier{}
			if notify {
				multi, closeNotifier, err := notifications.FromConfig(app.cfg.NotifyWebhookURL, notifications.AMQPConfig{
					URL:        app.cfg.AMQP.URL,
					Exchange:   app.cfg.AMQP.Exchange,
					RoutingKey: app.cfg.AMQP.RoutingKey,
					QueueName:  app.cfg.AMQP.QueueName,
				}, app.logger)
				if err != nil {
					return err
				}
				defer closeNotifier()
				notifier = multi
			}

			stack := app.metadata()
			poller := scheduler.NewPoller(
				repository.NewLibraryRepository(app.db),
				stack.Resolver,
				repository.NewMetadataCacheRepository(app.db),
				notifier,
				scheduler.PollerConfig{
					BackfillBatch: batch,
					CacheTTL:      app.cfg.MetadataCacheTTL,
					Providers:     stack.Resolver.Providers(),
					NotifyEnabled: notify,
				},
				app.logger,
			)

			report, err := poller.Backfill(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, resolved %d, missed %d, failed %d, notified %d\n",
				report.Checked, report.Resolved, report.Missed, report.Failed, report.Notified)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 0, "entries to process; defaults to BACKFILL_BATCH")
	cmd.Flags().BoolVar(&notify, "notify", false, "send new-chapter notifications through the configured notifiers")
	return cmd
}

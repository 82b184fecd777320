package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/repository"
	"github.com/gabriel/bmh/internal/scheduler"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the metadata lookup cache",
	}
	cmd.AddCommand(newCachePurgeCmd(opts), newCacheStatsCmd(opts))
	return cmd
}

func newCachePurgeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete cache rows older than METADATA_CACHE_TTL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			poller := scheduler.NewPoller(
				repository.NewLibraryRepository(app.db),
				nil,
				repository.NewMetadataCacheRepository(app.db),
				nil,
				scheduler.PollerConfig{CacheTTL: app.cfg.MetadataCacheTTL},
				app.logger,
			)
			removed, err := poller.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired cache rows\n", removed)
			return nil
		},
	}
}

func newCacheStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count cached lookups per provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			counts, err := repository.NewMetadataCacheRepository(app.db).Counts(cmd.Context())
			if err != nil {
				return err
			}

			providers := make([]string, 0, len(counts))
			for provider := range counts {
				providers = append(providers, provider)
			}
			sort.Strings(providers)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tFOUND\tNOT FOUND")
			for _, provider := range providers {
				fmt.Fprintf(w, "%s\t%d\t%d\n", provider, counts[provider][metadata.CacheFound], counts[provider][metadata.CacheNotFound])
			}
			return w.Flush()
		},
	}
}

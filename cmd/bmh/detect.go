package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/config"
	"github.com/gabriel/bmh/internal/library"
	"github.com/gabriel/bmh/internal/platform"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <url>",
		Short: "Show which platform adapter handles a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := opts.detect(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "platform: %s (%s)\n", adapter.ID(), adapter.Name())
			fmt.Fprintf(out, "kind:     %s\n", adapter.Kind())
			fmt.Fprintf(out, "unit:     %s\n", adapter.Unit())
			fmt.Fprintf(out, "reader:   %t\n", adapter.IsReaderPage(args[0]))
			return nil
		},
	}
}

func newReaderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reader <url>",
		Short: "Parse the series and chapter out of a reader URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := opts.detect(args[0])
			if err != nil {
				return err
			}

			location := adapter.ParseReaderURL(args[0])
			if location == nil {
				return fmt.Errorf("%s does not look like a %s reader page", args[0], adapter.Name())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "platform: %s\n", adapter.ID())
			fmt.Fprintf(out, "series:   %s\n", location.SeriesID)
			if location.Slug != "" && location.Slug != location.SeriesID {
				fmt.Fprintf(out, "slug:     %s\n", location.Slug)
			}
			if location.Chapter != nil {
				fmt.Fprintf(out, "%-9s %s\n", string(adapter.Unit())+":", platform.FormatChapter(*location.Chapter))
			}
			if keys := library.HistoryKeys(adapter, &platform.CardRecord{ID: location.SeriesID, Slug: location.Slug}); len(keys) > 0 {
				fmt.Fprintf(out, "keys:     %s\n", strings.Join(keys, ", "))
			}
			return nil
		},
	}
}

func (o *rootOptions) detect(rawURL string) (platform.Adapter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	adapter := o.registry(cfg, o.logger()).DetectCurrentPlatform(rawURL)
	if adapter == nil {
		return nil, fmt.Errorf("no platform matches %s", rawURL)
	}
	return adapter, nil
}

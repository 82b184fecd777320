package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/dom"
	"github.com/gabriel/bmh/internal/enhancer"
	"github.com/gabriel/bmh/internal/library"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/pagefetch"
	"github.com/gabriel/bmh/internal/repository"
)

type enhanceOptions struct {
	url        string
	file       string
	output     string
	cloudflare bool
	userAgent  string
}

func newEnhanceCmd(opts *rootOptions) *cobra.Command {
	flags := &enhanceOptions{}

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Annotate a listing page with library status borders and badges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnhance(cmd, opts, flags)
		},
	}
	cmd.Flags().StringVar(&flags.url, "url", "", "page URL; fetched unless --file is given")
	cmd.Flags().StringVar(&flags.file, "file", "", "read the page HTML from a saved file")
	cmd.Flags().StringVar(&flags.output, "output", "", "write the enhanced HTML here instead of stdout")
	cmd.Flags().BoolVar(&flags.cloudflare, "cloudflare", false, "fetch through the Cloudflare bypass transport")
	cmd.Flags().StringVar(&flags.userAgent, "user-agent", "", "override User-Agent for page fetches")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runEnhance(cmd *cobra.Command, opts *rootOptions, flags *enhanceOptions) error {
	app, err := opts.open()
	if err != nil {
		return err
	}
	defer app.Close()

	adapter := app.registry.DetectCurrentPlatform(flags.url)
	if adapter == nil {
		return fmt.Errorf("no platform matches %s", flags.url)
	}

	ctx := cmd.Context()
	var page *dom.Page
	if flags.file != "" {
		file, err := os.Open(flags.file)
		if err != nil {
			return fmt.Errorf("open page file: %w", err)
		}
		defer file.Close()
		if page, err = dom.NewPage(flags.url, file); err != nil {
			return err
		}
	} else {
		userAgent := flags.userAgent
		if userAgent == "" {
			userAgent = app.cfg.PageFetchUserAgent
		}
		fetcher := pagefetch.New(pagefetch.Options{
			UserAgent:  userAgent,
			Cloudflare: flags.cloudflare || app.cfg.PageFetchCloudflare,
		})
		if page, err = fetcher.Fetch(ctx, flags.url); err != nil {
			return err
		}
	}

	entries, err := repository.NewLibraryRepository(app.db).List(ctx, repository.LibraryListOptions{})
	if err != nil {
		app.logger.Warn("library unavailable, enhancing without entries", "error", err)
	}
	settings, err := repository.NewSettingsRepository(app.db).Load(ctx)
	if err != nil {
		app.logger.Warn("settings unavailable, using defaults", "error", err)
		settings = models.DefaultSettings()
	}

	result := enhancer.New(adapter, library.NewIndex(entries), settings, app.logger).ScanAndEnhance(ctx, page.Root())
	html, err := page.HTML()
	if err != nil {
		return err
	}

	if flags.output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), html)
	} else if err := os.WriteFile(flags.output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write enhanced page: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d cards scanned, %d matched, %d failed\n",
		adapter.Name(), result.Scanned, result.Matched, result.Failed)
	return nil
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/library"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/repository"
)

func newLibraryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and edit the reading library",
	}
	cmd.AddCommand(newLibraryListCmd(opts), newLibraryAddCmd(opts), newLibraryStatusCmd(opts), newLibraryMigrateCmd(opts))
	return cmd
}

func newLibraryListCmd(opts *rootOptions) *cobra.Command {
	var (
		status string
		source string
		query  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			options := repository.LibraryListOptions{Source: source, Query: query, Limit: limit}
			if status != "" {
				parsed, ok := library.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				options.Statuses = []models.Status{parsed}
			}

			entries, err := repository.NewLibraryRepository(app.db).List(cmd.Context(), options)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSOURCE\tLAST READ")
			for _, entry := range entries {
				last := "-"
				if entry.LastReadChapter != nil {
					last = *entry.LastReadChapter
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", entry.ID, entry.Title, entry.Status, entry.Source, last)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&source, "source", "", "filter by platform id")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to show")
	return cmd
}

func newLibraryAddCmd(opts *rootOptions) *cobra.Command {
	var input library.EntryInput
	var status, chapter string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a library entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			if status == "" {
				if status, err = selectStatus("Status"); err != nil {
					return err
				}
			}
			parsed, ok := library.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			input.Status = parsed
			if input.Source == "" && input.SourceURL != "" {
				input.Source = app.registry.InferSource(input.SourceURL)
			}
			if strings.TrimSpace(chapter) != "" {
				input.LastReadChapter = &chapter
			}

			entry := library.NewEntry(input, time.Now())
			if err := library.Validate(entry); err != nil {
				return err
			}

			stored, err := repository.NewLibraryRepository(app.db).Upsert(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s, %s)\n", stored.Title, stored.Status, stored.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Title, "title", "", "series title")
	cmd.Flags().StringVar(&input.SourceURL, "url", "", "series page URL")
	cmd.Flags().StringVar(&input.Source, "source", "", "platform id; inferred from --url when empty")
	cmd.Flags().StringVar(&input.SourceID, "source-id", "", "series id on the platform")
	cmd.Flags().StringVar(&input.Slug, "slug", "", "series slug on the platform")
	cmd.Flags().StringVar(&status, "status", "", "reading status; prompts when empty")
	cmd.Flags().StringVar(&chapter, "chapter", "", "last read chapter")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newLibraryStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> [status]",
		Short: "Change the status of a library entry",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			raw := ""
			if len(args) == 2 {
				raw = args[1]
			} else if raw, err = selectStatus("New status"); err != nil {
				return err
			}
			status, ok := library.ParseStatus(raw)
			if !ok {
				return fmt.Errorf("unknown status %q", raw)
			}

			if err := repository.NewLibraryRepository(app.db).UpdateStatus(cmd.Context(), args[0], status, time.Now().UTC()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], status)
			return nil
		},
	}
}

func newLibraryMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Infer platforms and default statuses for legacy entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			repo := repository.NewLibraryRepository(app.db)
			entries, err := repo.List(cmd.Context(), repository.LibraryListOptions{})
			if err != nil {
				return err
			}

			changed := library.MigrateLegacy(entries, app.registry)
			if changed > 0 {
				for _, entry := range entries {
					if _, err := repo.Upsert(cmd.Context(), entry); err != nil {
						return fmt.Errorf("save %s: %w", entry.ID, err)
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d of %d entries\n", changed, len(entries))
			return nil
		},
	}
}

func selectStatus(label string) (string, error) {
	items := make([]string, 0, len(models.KnownStatuses))
	for _, status := range models.KnownStatuses {
		items = append(items, string(status))
	}

	prompt := promptui.Select{
		Label: label,
		Items: items,
	}
	_, value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled")
	}
	return value, nil
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/gabriel/bmh/internal/metadata"
)

func newMDListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mdlist <list-id-or-url>",
		Short: "Import the titles of a public MangaDex list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			progress := mpb.NewWithContext(cmd.Context(),
				mpb.WithWidth(52),
				mpb.WithOutput(cmd.ErrOrStderr()),
				mpb.WithRefreshRate(120*time.Millisecond),
			)
			bar := progress.New(0,
				mpb.BarStyle().Rbound("]"),
				mpb.PrependDecorators(decor.Name("mdlist  ")),
				mpb.AppendDecorators(
					decor.Percentage(decor.WCSyncWidth),
					decor.CountersNoUnit(" | %d/%d titles", decor.WCSyncWidth),
				),
			)

			result := app.metadata().MangaDex.ImportListWithProgress(cmd.Context(), args[0], func(done int, total int) {
				bar.SetTotal(int64(total), false)
				bar.SetCurrent(int64(done))
			})
			if result.Success {
				bar.SetTotal(-1, true)
			} else {
				bar.Abort(true)
			}
			progress.Wait()

			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d titles\n", result.ListName, len(result.Manga))
			for _, manga := range result.Manga {
				fmt.Fprintf(out, "  %-40s %-8s %s\n", manga.DisplayTitle(), metadata.FormatName(manga), manga.Status)
			}
			return nil
		},
	}
}

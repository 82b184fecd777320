package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabriel/bmh/internal/metadata"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <title>",
		Short: "Look a title up on AniList, falling back to MangaDex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.Close()

			title := strings.Join(args, " ")
			res := app.metadata().Resolver.Resolve(cmd.Context(), title)

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(res)
			}

			switch res.Outcome {
			case metadata.OutcomeFound:
				fmt.Fprintf(out, "%s [%s %s]\n", res.Data.DisplayTitle(), res.Provider, res.Data.ID)
				fmt.Fprintf(out, "format:   %s\n", metadata.FormatName(*res.Data))
				fmt.Fprintf(out, "status:   %s\n", res.Data.Status)
				if res.Data.Chapters != nil {
					fmt.Fprintf(out, "chapters: %d\n", *res.Data.Chapters)
				}
				if res.Cached {
					fmt.Fprintln(out, "(cached)")
				}
				return nil
			case metadata.OutcomeNotFound:
				return fmt.Errorf("no metadata found for %q", title)
			default:
				return fmt.Errorf("metadata lookup failed for %q: %s", title, res.Error)
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full resolution as JSON")
	return cmd
}

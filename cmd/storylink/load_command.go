package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"storylink/internal/controller"
	"storylink/internal/page"
	"storylink/internal/theirstory"
	"storylink/internal/workspace"
)

type loadOutput struct {
	StoryID       string `json:"story_id"`
	Title         string `json:"title"`
	MediaURL      string `json:"media_url"`
	MarkupBytes   int    `json:"markup_bytes"`
	CorrelationID string `json:"correlation_id"`
}

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var (
		email   string
		format  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "load <story-id>",
		Short: "Load a story's recording and transcript into the player page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storyID := strings.TrimSpace(args[0])
			if storyID == "" {
				return &theirstory.ValidationError{Field: "story id", Message: "story ID is required"}
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withWorkspace(func(store *workspace.Store) error {
				notifier := page.NewRemoteNotifier(cfg, ctx.log())
				session, err := ctx.newSession(cmd, store, notifier, false, controller.WithFormattedTranscript(format))
				if err != nil {
					return err
				}
				if _, err := session.login(cmd.Context(), email); err != nil {
					return err
				}

				if err := selectStory(session.ctrl, storyID); err != nil {
					return err
				}
				result, err := session.ctrl.Submit(cmd.Context())
				if err != nil {
					return err
				}

				output := loadOutput{
					StoryID:       result.Story.ID,
					Title:         result.Story.DisplayTitle(),
					MediaURL:      result.MediaURL,
					MarkupBytes:   len(result.Markup),
					CorrelationID: result.CorrelationID,
				}
				if jsonOut {
					return writeJSON(cmd, output)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Loaded %s (%s)\n", output.Title, output.StoryID)
				fmt.Fprintln(out, renderField("Media", output.MediaURL))
				fmt.Fprintln(out, renderField("Transcript", humanize.Bytes(uint64(output.MarkupBytes))))
				fmt.Fprintln(out, renderField("Correlation", output.CorrelationID))
				fmt.Fprintln(out, renderField("Page", "http://"+cfg.Page.Listen))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (defaults to the remembered email)")
	cmd.Flags().BoolVar(&format, "format", false, "Build transcript markup from the JSON transcript instead of the service's HTML")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// selectStory stages a listed story by id, or a bare id when the listing does
// not contain it.
func selectStory(ctrl *controller.Controller, storyID string) error {
	for _, story := range ctrl.Stories() {
		if story.ID == storyID {
			return ctrl.Select(story)
		}
	}
	return ctrl.Select(theirstory.Story{ID: storyID})
}

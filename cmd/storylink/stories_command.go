package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storylink/internal/page"
	"storylink/internal/theirstory"
	"storylink/internal/workspace"
)

type storyListing struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Story map[string]any `json:"story,omitempty"`
}

func newStoriesCommand(ctx *commandContext) *cobra.Command {
	var (
		email   string
		filter  string
		sorted  bool
		jsonOut bool
		full    bool
	)

	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Sign in and list available stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withWorkspace(func(store *workspace.Store) error {
				session, err := ctx.newSession(cmd, store, page.NewRemoteNotifier(cfg, ctx.log()), false)
				if err != nil {
					return err
				}
				if _, err := session.login(cmd.Context(), email); err != nil {
					return err
				}

				stories := theirstory.FilterStories(session.ctrl.Stories(), filter)
				if sorted {
					stories = theirstory.SortByTitle(stories)
				}

				if jsonOut {
					listing := make([]storyListing, 0, len(stories))
					for _, story := range stories {
						entry := storyListing{ID: story.ID, Title: story.DisplayTitle()}
						if full {
							entry.Story = story.Fields
						}
						listing = append(listing, entry)
					}
					return writeJSON(cmd, listing)
				}

				out := cmd.OutOrStdout()
				if len(stories) == 0 {
					fmt.Fprintln(out, "No stories found")
					return nil
				}
				fmt.Fprintln(out, renderStoryTable(stories))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (defaults to the remembered email)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only list stories whose title or id contains this text")
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort stories by title")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&full, "full", false, "Include every story field in JSON output")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"storylink/internal/workspace"
)

type showOutput struct {
	StoryID       string        `json:"story_id"`
	StoryTitle    string        `json:"story_title"`
	MediaSource   string        `json:"media_source"`
	MediaReloads  int           `json:"media_reloads"`
	MarkupBytes   int           `json:"markup_bytes"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	Revision      int64         `json:"revision"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
	History       []historyItem `json:"history"`
}

type historyItem struct {
	StoryID         string    `json:"story_id"`
	StoryTitle      string    `json:"story_title"`
	MediaSource     string    `json:"media_source"`
	TranscriptBytes int       `json:"transcript_bytes"`
	CorrelationID   string    `json:"correlation_id"`
	LoadedAt        time.Time `json:"loaded_at"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		markup  bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show what the player page currently holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(func(store *workspace.Store) error {
				state, err := store.Current(cmd.Context())
				if err != nil {
					return err
				}
				if markup {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), state.TranscriptMarkup)
					return err
				}
				history, err := store.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, buildShowOutput(state, history))
				}
				renderShow(cmd, state, history)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&markup, "markup", false, "Print the raw transcript markup")
	cmd.Flags().IntVarP(&limit, "history", "n", 10, "Number of recent loads to list (0 for all)")
	return cmd
}

func buildShowOutput(state workspace.State, history []workspace.Load) showOutput {
	out := showOutput{
		StoryID:       state.StoryID,
		StoryTitle:    state.StoryTitle,
		MediaSource:   state.MediaSource,
		MediaReloads:  state.MediaReloads,
		MarkupBytes:   len(state.TranscriptMarkup),
		CorrelationID: state.CorrelationID,
		Revision:      state.Revision,
		History:       make([]historyItem, 0, len(history)),
	}
	if !state.UpdatedAt.IsZero() {
		updated := state.UpdatedAt
		out.UpdatedAt = &updated
	}
	for _, load := range history {
		out.History = append(out.History, historyItem{
			StoryID:         load.StoryID,
			StoryTitle:      load.StoryTitle,
			MediaSource:     load.MediaSource,
			TranscriptBytes: load.TranscriptBytes,
			CorrelationID:   load.CorrelationID,
			LoadedAt:        load.LoadedAt,
		})
	}
	return out
}

func renderShow(cmd *cobra.Command, state workspace.State, history []workspace.Load) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderHeading("Workspace", colorize))
	if state.Empty() {
		fmt.Fprintln(out, renderStatusLine("Page", statusWarn, "nothing loaded yet", colorize))
	} else {
		title := state.StoryTitle
		if title == "" {
			title = "(unknown)"
		}
		fmt.Fprintln(out, renderStatusLine("Page", statusOK, fmt.Sprintf("%s (%s)", title, state.StoryID), colorize))
		fmt.Fprintln(out, renderField("Media", state.MediaSource))
		fmt.Fprintln(out, renderField("Reloads", strconv.Itoa(state.MediaReloads)))
		fmt.Fprintln(out, renderField("Transcript", humanize.Bytes(uint64(len(state.TranscriptMarkup)))))
		fmt.Fprintln(out, renderField("Revision", strconv.FormatInt(state.Revision, 10)))
		if !state.UpdatedAt.IsZero() {
			fmt.Fprintln(out, renderField("Updated", humanize.Time(state.UpdatedAt)))
		}
	}

	if len(history) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderHeading("Recent loads", colorize))
	rows := make([][]string, 0, len(history))
	for _, load := range history {
		rows = append(rows, []string{
			load.StoryID,
			load.StoryTitle,
			humanize.Bytes(uint64(load.TranscriptBytes)),
			humanize.Time(load.LoadedAt),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Transcript", "Loaded"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
}

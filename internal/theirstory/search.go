package theirstory

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilterStories returns the stories whose title or id contains query, ignoring
// case and diacritics. An empty query returns the input unchanged.
func FilterStories(stories []Story, query string) []Story {
	needle := foldText(query)
	if needle == "" {
		return stories
	}
	out := make([]Story, 0, len(stories))
	for _, story := range stories {
		if strings.Contains(foldText(story.Title), needle) || strings.Contains(foldText(story.ID), needle) {
			out = append(out, story)
		}
	}
	return out
}

// SortByTitle orders stories by folded title, then id, keeping the input intact.
func SortByTitle(stories []Story) []Story {
	out := append([]Story(nil), stories...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := foldText(out[i].DisplayTitle()), foldText(out[j].DisplayTitle())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func foldText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		stripped = value
	}
	return cases.Fold().String(stripped)
}

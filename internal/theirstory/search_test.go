package theirstory

import "testing"

func TestFilterStoriesFoldsCaseAndDiacritics(t *testing.T) {
	stories := []Story{
		{ID: "1", Title: "Café Stories"},
		{ID: "2", Title: "Harbour Voices"},
		{ID: "cafe-3", Title: ""},
	}

	got := FilterStories(stories, "CAFE")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "cafe-3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if len(FilterStories(stories, "  ")) != 3 {
		t.Fatal("expected empty query to keep all stories")
	}
	if len(FilterStories(stories, "missing")) != 0 {
		t.Fatal("expected no matches")
	}
}

func TestSortByTitle(t *testing.T) {
	stories := []Story{
		{ID: "b", Title: "beta"},
		{ID: "a", Title: "Alpha"},
		{ID: "c", Title: "Écho"},
	}
	sorted := SortByTitle(stories)
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", sorted)
	}
	if stories[0].ID != "b" {
		t.Fatal("expected input slice untouched")
	}
}

package workspace_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"storylink/internal/testsupport"
	"storylink/internal/workspace"
)

func TestOpenStartsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenWorkspace(t, cfg)

	state, err := store.Current(context.Background())
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if !state.Empty() || state.Revision != 0 {
		t.Fatalf("expected empty workspace, got %+v", state)
	}
	if store.Path() != cfg.WorkspacePath() {
		t.Fatalf("expected db at %s, got %s", cfg.WorkspacePath(), store.Path())
	}
}

func TestTargetsUpdateAndBumpRevision(t *testing.T) {
	store := testsupport.MustOpenWorkspace(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.SetSource(ctx, "https://cdn.example/42.mp4"); err != nil {
		t.Fatalf("SetSource returned error: %v", err)
	}
	if err := store.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if err := store.SetMarkup(ctx, "<article></article>"); err != nil {
		t.Fatalf("SetMarkup returned error: %v", err)
	}

	state, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if state.MediaSource != "https://cdn.example/42.mp4" || state.MediaReloads != 1 {
		t.Fatalf("unexpected media state: %+v", state)
	}
	if state.TranscriptMarkup != "<article></article>" {
		t.Fatalf("unexpected markup %q", state.TranscriptMarkup)
	}
	if state.Revision != 3 {
		t.Fatalf("expected revision 3, got %d", state.Revision)
	}
	if state.UpdatedAt.IsZero() {
		t.Fatal("expected updated timestamp")
	}
}

func TestSetSourceEmptyClears(t *testing.T) {
	store := testsupport.MustOpenWorkspace(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := store.SetSource(ctx, "https://cdn.example/42.mp4"); err != nil {
		t.Fatalf("SetSource returned error: %v", err)
	}
	if err := store.SetSource(ctx, " "); err != nil {
		t.Fatalf("SetSource(empty) returned error: %v", err)
	}
	source, err := store.Source(ctx)
	if err != nil {
		t.Fatalf("Source returned error: %v", err)
	}
	if source != "" {
		t.Fatalf("expected cleared source, got %q", source)
	}
}

func TestApplyUpdatesTargetsTogether(t *testing.T) {
	store := testsupport.MustOpenWorkspace(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Apply(ctx, "https://cdn.example/42.mp4", "<article>42</article>"); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	state, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if state.MediaSource != "https://cdn.example/42.mp4" || state.MediaReloads != 1 {
		t.Fatalf("unexpected media state: %+v", state)
	}
	if state.TranscriptMarkup != "<article>42</article>" || state.Revision != 1 {
		t.Fatalf("unexpected transcript state: %+v", state)
	}

	if err := store.Apply(ctx, " ", "<article>7</article>"); err == nil {
		t.Fatal("expected error for empty media source")
	}
	after, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if after.TranscriptMarkup != "<article>42</article>" || after.Revision != 1 {
		t.Fatalf("expected failed apply to leave targets unchanged, got %+v", after)
	}
}

func TestApplyCanceledLeavesTargetsUnchanged(t *testing.T) {
	store := testsupport.MustOpenWorkspace(t, testsupport.NewConfig(t))
	if err := store.Apply(context.Background(), "https://cdn.example/42.mp4", "<article>42</article>"); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Apply(ctx, "https://cdn.example/7.mp4", "<article>7</article>"); err == nil {
		t.Fatal("expected error for canceled context")
	}

	state, err := store.Current(context.Background())
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if state.MediaSource != "https://cdn.example/42.mp4" || state.TranscriptMarkup != "<article>42</article>" {
		t.Fatalf("expected previous story to remain, got %+v", state)
	}
}

func TestRecordLoadAppendsAndTrimsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistoryLimit(2))
	store := testsupport.MustOpenWorkspace(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		if err := store.SetSource(ctx, "https://cdn.example/"+id+".mp4"); err != nil {
			t.Fatalf("SetSource returned error: %v", err)
		}
		if err := store.SetMarkup(ctx, "<p>"+id+"</p>"); err != nil {
			t.Fatalf("SetMarkup returned error: %v", err)
		}
		if err := store.RecordLoad(ctx, id, "Story "+id, "corr-"+id); err != nil {
			t.Fatalf("RecordLoad returned error: %v", err)
		}
	}

	history, err := store.History(ctx, 0)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 retained loads, got %d", len(history))
	}
	if history[0].StoryID != "3" || history[1].StoryID != "2" {
		t.Fatalf("expected newest first, got %q then %q", history[0].StoryID, history[1].StoryID)
	}
	if history[0].MediaSource != "https://cdn.example/3.mp4" || history[0].TranscriptBytes != len("<p>3</p>") {
		t.Fatalf("unexpected history entry: %+v", history[0])
	}

	state, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if state.StoryID != "3" || state.StoryTitle != "Story 3" || state.CorrelationID != "corr-3" {
		t.Fatalf("unexpected stamped state: %+v", state)
	}

	limited, err := store.History(ctx, 1)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 load, got %d", len(limited))
	}
}

func TestStatePersistsAcrossOpen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := workspace.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := first.SetMarkup(context.Background(), "<p>kept</p>"); err != nil {
		t.Fatalf("SetMarkup returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second := testsupport.MustOpenWorkspace(t, cfg)
	state, err := second.Current(context.Background())
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if state.TranscriptMarkup != "<p>kept</p>" {
		t.Fatalf("expected persisted markup, got %q", state.TranscriptMarkup)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.db")
	store, err := workspace.OpenPath(path, 5)
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	_, err = workspace.OpenPath(path, 5)
	if !errors.Is(err, workspace.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SetSource points the media element at url. An empty url clears it.
func (s *Store) SetSource(ctx context.Context, url string) error {
	if err := s.execWithRetry(ctx,
		`UPDATE targets SET media_source = ?, revision = revision + 1, updated_at = ? WHERE id = 1`,
		strings.TrimSpace(url), now(),
	); err != nil {
		return fmt.Errorf("set media source: %w", err)
	}
	return nil
}

// Source returns the media element's current source.
func (s *Store) Source(ctx context.Context) (string, error) {
	state, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return state.MediaSource, nil
}

// Reload asks the media element to load its current source again.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.execWithRetry(ctx,
		`UPDATE targets SET media_reloads = media_reloads + 1, revision = revision + 1, updated_at = ? WHERE id = 1`,
		now(),
	); err != nil {
		return fmt.Errorf("reload media: %w", err)
	}
	return nil
}

// SetMarkup replaces the transcript container's content.
func (s *Store) SetMarkup(ctx context.Context, markup string) error {
	if err := s.execWithRetry(ctx,
		`UPDATE targets SET transcript_markup = ?, revision = revision + 1, updated_at = ? WHERE id = 1`,
		markup, now(),
	); err != nil {
		return fmt.Errorf("set transcript markup: %w", err)
	}
	return nil
}

// Apply sets the media source, reloads the media element and replaces the
// transcript markup in one transaction, bumping the revision once.
func (s *Store) Apply(ctx context.Context, url, markup string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("media source is empty")
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin apply tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`UPDATE targets SET media_source = ?, media_reloads = media_reloads + 1, transcript_markup = ?,
			 revision = revision + 1, updated_at = ? WHERE id = 1`,
			url, markup, now(),
		); err != nil {
			return fmt.Errorf("apply targets: %w", err)
		}
		return tx.Commit()
	})
}

// RecordLoad stamps the current targets with the story they came from and
// appends a history entry, trimming history to the configured limit.
func (s *Store) RecordLoad(ctx context.Context, storyID, storyTitle, correlationID string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stamp := now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE targets SET story_id = ?, story_title = ?, correlation_id = ?, revision = revision + 1, updated_at = ? WHERE id = 1`,
			storyID, storyTitle, correlationID, stamp,
		); err != nil {
			return fmt.Errorf("stamp targets: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO loads (story_id, story_title, media_source, transcript_bytes, correlation_id, loaded_at)
			 SELECT ?, ?, media_source, length(CAST(transcript_markup AS BLOB)), ?, ? FROM targets WHERE id = 1`,
			storyID, storyTitle, correlationID, stamp,
		); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM loads WHERE id NOT IN (SELECT id FROM loads ORDER BY id DESC LIMIT ?)`,
			s.historyLimit,
		); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
		return tx.Commit()
	})
}

// Current returns the render-target state.
func (s *Store) Current(ctx context.Context) (State, error) {
	ctx = ensureContext(ctx)
	var (
		state   State
		updated string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT story_id, story_title, media_source, media_reloads, transcript_markup, correlation_id, revision, updated_at
		 FROM targets WHERE id = 1`,
	).Scan(&state.StoryID, &state.StoryTitle, &state.MediaSource, &state.MediaReloads,
		&state.TranscriptMarkup, &state.CorrelationID, &state.Revision, &updated)
	if err == sql.ErrNoRows {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read targets: %w", err)
	}
	state.UpdatedAt = parseTime(updated)
	return state, nil
}

// History returns up to limit loads, newest first. A non-positive limit
// returns every retained entry.
func (s *Store) History(ctx context.Context, limit int) ([]Load, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, story_id, story_title, media_source, transcript_bytes, correlation_id, loaded_at
		 FROM loads ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var loads []Load
	for rows.Next() {
		var (
			load     Load
			loadedAt string
		)
		if err := rows.Scan(&load.ID, &load.StoryID, &load.StoryTitle, &load.MediaSource,
			&load.TranscriptBytes, &load.CorrelationID, &loadedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		load.LoadedAt = parseTime(loadedAt)
		loads = append(loads, load)
	}
	return loads, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

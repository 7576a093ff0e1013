package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"storylink/internal/hyperaudio"
	"storylink/internal/logging"
	"storylink/internal/services"
	"storylink/internal/theirstory"
)

// Result describes a story that was loaded into the render targets.
type Result struct {
	Story         theirstory.Story
	MediaURL      string
	Markup        string
	CorrelationID string
}

// Select stages story for submission, replacing any previous selection.
func (c *Controller) Select(story theirstory.Story) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return c.fail(context.Background(), "select", &theirstory.AuthenticationError{Reason: "not signed in"})
	}
	staged := story
	c.selected = &staged
	c.mu.Unlock()
	c.view.ShowSelection(story)
	return nil
}

// SelectByKey stages a listed story by 1-based position or by id.
func (c *Controller) SelectByKey(key string) (theirstory.Story, error) {
	key = strings.TrimSpace(key)
	stories := c.Stories()
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(stories) {
		story := stories[n-1]
		return story, c.Select(story)
	}
	for _, story := range stories {
		if story.ID == key {
			return story, c.Select(story)
		}
	}
	err := &theirstory.ValidationError{Field: "story", Message: fmt.Sprintf("no listed story matches %q", key)}
	return theirstory.Story{}, c.fail(context.Background(), "select", err)
}

// Submit loads the staged story into the render targets. With nothing staged
// it returns (nil, nil). A fetch failure leaves every target untouched and the
// state unchanged.
func (c *Controller) Submit(ctx context.Context) (*Result, error) {
	story, ok := c.Selected()
	if !ok {
		return nil, nil
	}
	storyID := strings.TrimSpace(story.ID)
	if storyID == "" {
		return nil, c.fail(ctx, "submit", &theirstory.ValidationError{Field: "story", Message: "invalid story selected"})
	}

	correlationID := uuid.NewString()
	ctx = services.WithRequestID(ctx, correlationID)
	ctx = services.WithStoryID(ctx, storyID)
	ctx = services.WithOperation(ctx, "submit")
	logger := logging.WithContext(ctx, c.logger)

	c.view.SetBusy("submit", true)
	defer c.view.SetBusy("submit", false)

	logger.Info("loading story", logging.String("title", story.DisplayTitle()))
	detail, markup, mediaURL, err := c.fetchAll(ctx, storyID)
	if err != nil {
		return nil, c.fail(ctx, "submit", fmt.Errorf("failed to load story: %w", err))
	}

	if err := c.apply(ctx, mediaURL, markup); err != nil {
		return nil, c.fail(ctx, "submit", err)
	}
	if detail.ID == "" {
		detail.ID = storyID
	}
	if detail.Title == "" {
		detail.Title = story.Title
	}
	if c.targets.Recorder != nil {
		if err := c.targets.Recorder.RecordLoad(ctx, detail.ID, detail.DisplayTitle(), correlationID); err != nil {
			logger.Warn("failed to record load", logging.Error(err))
		}
	}

	c.view.CloseLoader()
	c.reset()
	logger.Info("story loaded", logging.String("media_url", mediaURL), logging.Int("markup_bytes", len(markup)))
	return &Result{Story: detail, MediaURL: mediaURL, Markup: markup, CorrelationID: correlationID}, nil
}

func (c *Controller) fetchAll(ctx context.Context, storyID string) (theirstory.Story, string, string, error) {
	var (
		detail   theirstory.Story
		markup   string
		mediaURL string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = c.api.FetchStory(gctx, storyID)
		return err
	})
	g.Go(func() error {
		if c.formatLocally {
			transcript, err := c.api.FetchTranscript(gctx, storyID)
			if err != nil {
				return err
			}
			markup = hyperaudio.FormatTranscript(transcript)
			return nil
		}
		var err error
		markup, err = c.api.FetchTranscriptHTML(gctx, storyID)
		return err
	})
	g.Go(func() error {
		var err error
		mediaURL, err = c.api.FetchRecordingURL(gctx, storyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return theirstory.Story{}, "", "", err
	}
	return detail, markup, mediaURL, nil
}

func (c *Controller) apply(ctx context.Context, mediaURL, markup string) error {
	logger := logging.WithContext(ctx, c.logger)
	if applier, ok := c.targets.Media.(Applier); ok {
		if err := applier.Apply(ctx, mediaURL, markup); err != nil {
			return services.Wrap(services.ErrTransient, "controller", "apply targets", "", err)
		}
	} else if err := c.applySeparately(ctx, logger, mediaURL, markup); err != nil {
		return err
	}
	if err := c.targets.Notifier.Notify(ctx, hyperaudio.InitEvent); err != nil {
		logger.Warn("renderer notification failed", logging.Error(err))
	}
	return nil
}

// applySeparately updates media then transcript. When the transcript cannot
// be set the previous media source is restored.
func (c *Controller) applySeparately(ctx context.Context, logger *slog.Logger, mediaURL, markup string) error {
	media := c.targets.Media
	previous, err := media.Source(ctx)
	if err != nil {
		return services.Wrap(services.ErrTransient, "controller", "read media source", "", err)
	}
	if err := media.SetSource(ctx, mediaURL); err != nil {
		return services.Wrap(services.ErrTransient, "controller", "set media source", "", err)
	}
	if err := media.Reload(ctx); err != nil {
		logger.Warn("media reload failed", logging.Error(err))
	}
	if err := c.targets.Transcript.SetMarkup(ctx, markup); err != nil {
		if restoreErr := media.SetSource(ctx, previous); restoreErr != nil {
			logger.Warn("failed to restore media source", logging.String("source", previous), logging.Error(restoreErr))
		} else if reloadErr := media.Reload(ctx); reloadErr != nil {
			logger.Warn("media reload failed", logging.Error(reloadErr))
		}
		return services.Wrap(services.ErrTransient, "controller", "set transcript", "", err)
	}
	return nil
}

func (c *Controller) reset() {
	c.mu.Lock()
	c.selected = nil
	c.stories = nil
	c.mu.Unlock()
	c.view.HideStories()
}

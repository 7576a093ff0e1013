package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"storylink/internal/credentials"
	"storylink/internal/logging"
	"storylink/internal/theirstory"
)

// State is the controller's visible state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// View presents controller state to the user.
type View interface {
	// ShowAuthForm shows the auth form and hides the story list.
	ShowAuthForm()
	// PrefillEmail places email in the auth form. Empty clears it.
	PrefillEmail(email string)
	// ShowStories shows the story list and hides the auth form.
	ShowStories(stories []theirstory.Story)
	// HideStories clears and hides the story list.
	HideStories()
	ShowSelection(story theirstory.Story)
	SetBusy(action string, busy bool)
	CloseLoader()
	ShowError(err error)
}

// MediaTarget is the media element that plays a story's recording.
type MediaTarget interface {
	Source(ctx context.Context) (string, error)
	SetSource(ctx context.Context, url string) error
	Reload(ctx context.Context) error
}

// Applier sets a media source, reloads it and replaces the transcript markup
// as one change. Media targets that implement it are updated through Apply.
type Applier interface {
	Apply(ctx context.Context, url, markup string) error
}

// TranscriptTarget is the container that holds transcript markup.
type TranscriptTarget interface {
	SetMarkup(ctx context.Context, markup string) error
}

// Notifier tells the transcript renderer that new content is in place.
type Notifier interface {
	Notify(ctx context.Context, event string) error
}

// LoadRecorder remembers which story the targets were filled from.
type LoadRecorder interface {
	RecordLoad(ctx context.Context, storyID, storyTitle, correlationID string) error
}

// CredentialStore persists the last email used to sign in.
type CredentialStore interface {
	Load() (credentials.Stored, error)
	RememberEmail(email string) error
	Forget() error
}

// Targets groups the render targets a submission writes to.
type Targets struct {
	Media      MediaTarget
	Transcript TranscriptTarget
	Notifier   Notifier
	Recorder   LoadRecorder
}

// Option configures optional Controller behavior.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "controller")
		}
	}
}

// WithCredentialStore remembers the signed-in email across runs.
func WithCredentialStore(store CredentialStore) Option {
	return func(c *Controller) {
		c.creds = store
	}
}

// WithFormattedTranscript builds transcript markup locally from the JSON
// transcript instead of using the service's pre-rendered HTML.
func WithFormattedTranscript(enabled bool) Option {
	return func(c *Controller) {
		c.formatLocally = enabled
	}
}

// Controller binds the view and render targets to the API client.
type Controller struct {
	api           theirstory.API
	view          View
	targets       Targets
	creds         CredentialStore
	logger        *slog.Logger
	formatLocally bool

	mu       sync.Mutex
	state    State
	stories  []theirstory.Story
	selected *theirstory.Story
}

// New constructs a controller in the Unauthenticated state.
func New(api theirstory.API, view View, targets Targets, opts ...Option) (*Controller, error) {
	if api == nil || view == nil {
		return nil, errors.New("controller requires api client and view")
	}
	if targets.Media == nil || targets.Transcript == nil || targets.Notifier == nil {
		return nil, errors.New("controller requires media, transcript, and notifier targets")
	}
	c := &Controller{
		api:     api,
		view:    view,
		targets: targets,
		logger:  logging.NewNop(),
		state:   StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current visible state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stories returns the currently listed stories.
func (c *Controller) Stories() []theirstory.Story {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]theirstory.Story(nil), c.stories...)
}

// Selected returns the staged story, if any.
func (c *Controller) Selected() (theirstory.Story, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return theirstory.Story{}, false
	}
	return *c.selected, true
}

func (c *Controller) fail(ctx context.Context, operation string, err error) error {
	logging.WithContext(ctx, c.logger).Warn(operation+" failed", logging.Args(logging.ErrorAttrs(err)...)...)
	c.view.ShowError(err)
	return err
}

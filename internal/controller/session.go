package controller

import (
	"context"
	"fmt"
	"strings"

	"storylink/internal/logging"
	"storylink/internal/services"
	"storylink/internal/theirstory"
)

// Initialize shows the auth form prefilled with the remembered email and
// returns that email.
func (c *Controller) Initialize(ctx context.Context) string {
	email := c.rememberedEmail(ctx)
	c.view.PrefillEmail(email)
	c.view.ShowAuthForm()
	return email
}

// AutoLogin signs in silently with the remembered email. It does nothing when
// no email is remembered or password is empty. A failure leaves the controller
// Unauthenticated with no session.
func (c *Controller) AutoLogin(ctx context.Context, password string) error {
	email := c.rememberedEmail(ctx)
	if email == "" || password == "" {
		return nil
	}
	ctx = services.WithOperation(ctx, "auto_login")
	return c.signIn(ctx, email, password, true)
}

// Login authenticates, lists stories and switches to the Authenticated state.
// On success the email is remembered.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	ctx = services.WithOperation(ctx, "login")
	return c.signIn(ctx, email, password, false)
}

func (c *Controller) signIn(ctx context.Context, email, password string, verify bool) error {
	email = strings.TrimSpace(email)
	c.view.SetBusy("login", true)
	defer c.view.SetBusy("login", false)

	logger := logging.WithContext(ctx, c.logger)
	if _, err := c.api.Authenticate(ctx, email, password); err != nil {
		return c.revertToSignedOut(ctx, err)
	}
	if verify {
		if err := c.api.CheckToken(ctx); err != nil {
			return c.revertToSignedOut(ctx, err)
		}
	}
	stories, err := c.api.ListStories(ctx)
	if err != nil {
		return c.revertToSignedOut(ctx, err)
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.stories = stories
	c.selected = nil
	c.mu.Unlock()
	c.view.PrefillEmail(email)
	c.view.ShowStories(stories)

	if c.creds != nil {
		if err := c.creds.RememberEmail(email); err != nil {
			logger.Warn("failed to remember email", logging.Error(err))
		}
	}
	logger.Info("signed in", logging.String("email", email), logging.Int("stories", len(stories)))
	return nil
}

func (c *Controller) revertToSignedOut(ctx context.Context, err error) error {
	c.api.Logout()
	c.mu.Lock()
	c.state = StateUnauthenticated
	c.stories = nil
	c.selected = nil
	c.mu.Unlock()
	c.view.HideStories()
	c.view.ShowAuthForm()
	return c.fail(ctx, "login", fmt.Errorf("login failed: %w", err))
}

// Logout drops the session, forgets the remembered email and shows the empty
// auth form.
func (c *Controller) Logout(ctx context.Context) {
	c.api.Logout()
	if c.creds != nil {
		if err := c.creds.Forget(); err != nil {
			c.logger.Warn("failed to forget email", logging.Error(err))
		}
	}
	c.mu.Lock()
	c.state = StateUnauthenticated
	c.stories = nil
	c.selected = nil
	c.mu.Unlock()
	c.view.HideStories()
	c.view.PrefillEmail("")
	c.view.ShowAuthForm()
	logging.WithContext(ctx, c.logger).Info("signed out")
}

// LoadStories refreshes the story list. Failures leave the state unchanged.
func (c *Controller) LoadStories(ctx context.Context) ([]theirstory.Story, error) {
	ctx = services.WithOperation(ctx, "list_stories")
	stories, err := c.api.ListStories(ctx)
	if err != nil {
		return nil, c.fail(ctx, "list stories", fmt.Errorf("failed to load stories: %w", err))
	}
	c.mu.Lock()
	c.stories = stories
	c.selected = nil
	c.mu.Unlock()
	c.view.ShowStories(stories)
	return stories, nil
}

func (c *Controller) rememberedEmail(ctx context.Context) string {
	if c.creds == nil {
		return ""
	}
	stored, err := c.creds.Load()
	if err != nil {
		logging.WithContext(ctx, c.logger).Warn("failed to read remembered email", logging.Error(err))
		return ""
	}
	return stored.Email
}

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"storylink/internal/controller"
	"storylink/internal/workspace"
)

// cliSession wires one controller for the lifetime of a command.
type cliSession struct {
	view   *cliView
	ctrl   *controller.Controller
	prompt *prompter
}

func (c *commandContext) newSession(cmd *cobra.Command, store *workspace.Store, notifier controller.Notifier, interactive bool, opts ...controller.Option) (*cliSession, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	creds, err := c.credentialStore()
	if err != nil {
		return nil, err
	}
	view := newCLIView(cmd.OutOrStdout(), interactive)
	targets := controller.Targets{
		Media:      store,
		Transcript: store,
		Notifier:   notifier,
		Recorder:   store,
	}
	base := []controller.Option{
		controller.WithLogger(c.log()),
		controller.WithCredentialStore(creds),
	}
	ctrl, err := controller.New(client, view, targets, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	s := &cliSession{
		view:   view,
		ctrl:   ctrl,
		prompt: newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
	}
	ctrl.Initialize(cmd.Context())
	return s, nil
}

// login signs in with email, falling back to the remembered email and then to
// a prompt, and returns the email used. The password comes from STORYLINK_PASSWORD or a hidden prompt.
func (s *cliSession) login(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		prefilled := s.view.prefilledEmail()
		if prefilled != "" && s.hasPasswordEnv() {
			email = prefilled
		} else {
			answer, err := s.prompt.ask(ctx, "Email", prefilled)
			if err != nil {
				return "", err
			}
			email = answer
		}
	}
	password, err := s.prompt.password(ctx)
	if err != nil {
		return "", err
	}
	if err := s.ctrl.Login(ctx, email, password); err != nil {
		return "", err
	}
	return strings.TrimSpace(email), nil
}

func (s *cliSession) hasPasswordEnv() bool {
	_, ok := lookupPasswordEnv()
	return ok
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storylink/internal/page"
	"storylink/internal/workspace"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the email for next time",
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
				signedIn, err := session.login(cmd.Context(), email)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Signed in as %s\n", signedIn)
				fmt.Fprintf(out, "%d stories available\n", len(session.ctrl.Stories()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (defaults to the remembered email)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered email",
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
				session.ctrl.Logout(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out; remembered email cleared")
				return nil
			})
		},
	}
}

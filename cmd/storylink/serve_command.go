package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"storylink/internal/controller"
	"storylink/internal/page"
	"storylink/internal/workspace"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		listen string
		format bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the player page and an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(listen) != "" {
				cfg.Page.Listen = strings.TrimSpace(listen)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(runCtx)

			return ctx.withWorkspace(func(store *workspace.Store) error {
				broker := page.NewBroker(0)
				server, err := page.NewServer(cfg, store, broker, ctx.log())
				if err != nil {
					return err
				}
				if err := server.Start(runCtx); err != nil {
					return err
				}
				defer server.Stop()

				session, err := ctx.newSession(cmd, store, broker, true, controller.WithFormattedTranscript(format))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderField("Page", server.URL()))

				if cfg.Session.AutoLogin {
					if password, ok := lookupPasswordEnv(); ok {
						_ = session.ctrl.AutoLogin(runCtx, password)
					}
				}

				shell := &sessionShell{session: session, out: out, pageURL: server.URL(), logger: ctx.log()}
				err = shell.run(runCtx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Override the page listen address")
	cmd.Flags().BoolVar(&format, "format", false, "Build transcript markup from the JSON transcript instead of the service's HTML")
	return cmd
}

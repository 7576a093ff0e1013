package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"storylink/internal/controller"
	"storylink/internal/logging"
	"storylink/internal/theirstory"
)

const shellHelp = `Commands:
  login [email]     sign in (password from STORYLINK_PASSWORD or prompt)
  list [filter]     refresh and show stories, optionally filtered
  select <#|id>     stage a story from the list
  submit            load the staged story into the page
  logout            sign out and forget the remembered email
  status            show session state
  help              show this help
  quit              stop the page and exit`

// sessionShell reads commands line by line and drives the controller.
type sessionShell struct {
	session *cliSession
	out     io.Writer
	pageURL string
	logger  *slog.Logger
}

func (s *sessionShell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type `help` for commands.")
	for {
		fmt.Fprint(s.out, "storylink> ")
		line, err := s.session.prompt.line(ctx)
		if errors.Is(err, errNoInput) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := s.dispatch(ctx, line)
		if err != nil && errors.Is(err, context.Canceled) {
			return err
		}
		if quit {
			return nil
		}
	}
}

// dispatch runs one command. Controller failures are already shown by the
// view, so they are only logged here.
func (s *sessionShell) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	ctrl := s.session.ctrl

	var err error
	switch name {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit":
		return true, nil
	case "login":
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		_, err = s.session.login(ctx, email)
	case "list":
		if ctrl.State() != controller.StateAuthenticated {
			s.session.view.ShowError(errors.New("sign in first with `login`"))
			return false, nil
		}
		var stories []theirstory.Story
		stories, err = ctrl.LoadStories(ctx)
		if err == nil && len(args) > 0 {
			filtered := theirstory.FilterStories(stories, strings.Join(args, " "))
			fmt.Fprintf(s.out, "%d of %d stories match\n", len(filtered), len(stories))
			if len(filtered) > 0 {
				fmt.Fprintln(s.out, renderStoryTable(filtered))
			}
		}
	case "select":
		if len(args) == 0 {
			s.session.view.ShowError(errors.New("usage: select <#|id>"))
			return false, nil
		}
		_, err = ctrl.SelectByKey(strings.Join(args, " "))
	case "submit":
		var result *controller.Result
		result, err = ctrl.Submit(ctx)
		if err == nil && result == nil {
			fmt.Fprintln(s.out, "Nothing selected; use `select <#|id>` first.")
		}
		if result != nil {
			fmt.Fprintln(s.out, renderField("Loaded", fmt.Sprintf("%s (%s)", result.Story.DisplayTitle(), result.Story.ID)))
			fmt.Fprintln(s.out, "Type `list` to choose another story.")
		}
	case "logout":
		ctrl.Logout(ctx)
	case "status":
		s.printStatus()
	default:
		s.session.view.ShowError(fmt.Errorf("unknown command %q (type `help`)", name))
	}
	if err != nil {
		s.logger.Debug("session command failed", logging.String("command", name), logging.Error(err))
	}
	return false, err
}

func (s *sessionShell) printStatus() {
	ctrl := s.session.ctrl
	colorize := s.session.view.colorize
	kind := statusWarn
	if ctrl.State() == controller.StateAuthenticated {
		kind = statusOK
	}
	fmt.Fprintln(s.out, renderStatusLine("Session", kind, ctrl.State().String(), colorize))
	if email := s.session.view.prefilledEmail(); email != "" {
		fmt.Fprintln(s.out, renderField("Email", email))
	}
	fmt.Fprintln(s.out, renderField("Stories", fmt.Sprintf("%d listed", len(ctrl.Stories()))))
	if story, ok := ctrl.Selected(); ok {
		fmt.Fprintln(s.out, renderField("Selected", fmt.Sprintf("%s (%s)", story.DisplayTitle(), story.ID)))
	}
	fmt.Fprintln(s.out, renderField("Page", s.pageURL))
}

package main

import (
	"fmt"
	"io"
	"sync"

	"storylink/internal/theirstory"
)

// cliView renders controller state as terminal output. One-shot commands use
// a quiet view and print their own results; the serve session prints
// everything.
type cliView struct {
	out         io.Writer
	colorize    bool
	interactive bool

	mu    sync.Mutex
	email string
}

func newCLIView(out io.Writer, interactive bool) *cliView {
	return &cliView{out: out, colorize: shouldColorize(out), interactive: interactive}
}

func (v *cliView) ShowAuthForm() {
	if !v.interactive {
		return
	}
	fmt.Fprintln(v.out, renderStatusLine("Session", statusWarn, "signed out; type `login` to sign in", v.colorize))
}

func (v *cliView) PrefillEmail(email string) {
	v.mu.Lock()
	v.email = email
	v.mu.Unlock()
}

func (v *cliView) prefilledEmail() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.email
}

func (v *cliView) ShowStories(stories []theirstory.Story) {
	if !v.interactive {
		return
	}
	if len(stories) == 0 {
		fmt.Fprintln(v.out, "No stories available.")
		return
	}
	fmt.Fprintln(v.out, renderStoryTable(stories))
	fmt.Fprintln(v.out, "Type `select <#|id>` then `submit` to load a story.")
}

func (v *cliView) HideStories() {}

func (v *cliView) ShowSelection(story theirstory.Story) {
	if !v.interactive {
		return
	}
	fmt.Fprintln(v.out, renderField("Selected", fmt.Sprintf("%s (%s)", story.DisplayTitle(), story.ID)))
}

func (v *cliView) SetBusy(action string, busy bool) {
	if !v.interactive || !busy {
		return
	}
	switch action {
	case "login":
		fmt.Fprintln(v.out, "Signing in...")
	case "submit":
		fmt.Fprintln(v.out, "Loading story...")
	}
}

func (v *cliView) CloseLoader() {
	if !v.interactive {
		return
	}
	fmt.Fprintln(v.out, renderStatusLine("Load", statusOK, "story sent to the page", v.colorize))
}

func (v *cliView) ShowError(err error) {
	if !v.interactive || err == nil {
		return
	}
	fmt.Fprintln(v.out, renderStatusLine("Error", statusError, err.Error(), v.colorize))
}

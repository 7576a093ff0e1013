package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const passwordEnv = "STORYLINK_PASSWORD"

var errNoInput = errors.New("no input available")

type promptResult struct {
	text string
	err  error
}

type promptRequest struct {
	secret bool
	reply  chan promptResult
}

// prompter owns the input stream. A single goroutine performs every read so a
// cancelled context never leaves two readers racing for the same terminal.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	startOnce sync.Once
	requests  chan promptRequest
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:       in,
		out:      out,
		reader:   bufio.NewReader(in),
		requests: make(chan promptRequest),
	}
}

// ask prints label and reads one line. An empty answer returns fallback.
func (p *prompter) ask(ctx context.Context, label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	text, err := p.next(ctx, false)
	if err != nil {
		return "", err
	}
	if text == "" {
		return fallback, nil
	}
	return text, nil
}

// password returns STORYLINK_PASSWORD when set, otherwise prompts without echo
// on a terminal.
func (p *prompter) password(ctx context.Context) (string, error) {
	if value, ok := lookupPasswordEnv(); ok {
		return value, nil
	}
	fmt.Fprint(p.out, "Password: ")
	text, err := p.next(ctx, true)
	if err != nil {
		return "", err
	}
	return text, nil
}

// line reads the next line without printing a label.
func (p *prompter) line(ctx context.Context) (string, error) {
	return p.next(ctx, false)
}

func (p *prompter) next(ctx context.Context, secret bool) (string, error) {
	p.startOnce.Do(func() { go p.serve() })
	req := promptRequest{secret: secret, reply: make(chan promptResult, 1)}
	select {
	case p.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *prompter) serve() {
	for req := range p.requests {
		text, err := p.read(req.secret)
		req.reply <- promptResult{text: text, err: err}
	}
}

func (p *prompter) read(secret bool) (string, error) {
	if secret {
		if fd, ok := terminalFD(p.in); ok {
			raw, err := term.ReadPassword(int(fd))
			fmt.Fprintln(p.out)
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(raw), nil
		}
	}
	text, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	text = strings.TrimRight(text, "\r\n")
	if !secret {
		text = strings.TrimSpace(text)
	}
	return text, nil
}

func lookupPasswordEnv() (string, bool) {
	value := os.Getenv(passwordEnv)
	return value, value != ""
}

func terminalFD(r io.Reader) (uintptr, bool) {
	file, ok := r.(*os.File)
	if !ok {
		return 0, false
	}
	fd := file.Fd()
	return fd, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// fieldWidth fits the longest label storylink prints ("Correlation:").
const fieldWidth = 13

var statusTags = map[statusKind]struct{ tag, color string }{
	statusOK:    {"ok", ansiGreen},
	statusWarn:  {"warn", ansiYellow},
	statusError: {"error", ansiRed},
}

// renderStatusLine prints a field whose value carries a state tag, such as
// the session state or a failed command. Only the tag is colored.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusTags[kind]
	tag := "[" + style.tag + "]"
	if colorize {
		tag = style.color + tag + ansiReset
	}
	return renderField(label, strings.TrimSpace(tag+" "+message))
}

func renderField(label, value string) string {
	return fmt.Sprintf("  %-*s %s", fieldWidth, label+":", value)
}

// renderHeading titles a block of fields in show output.
func renderHeading(title string, colorize bool) string {
	title = strings.TrimSpace(title)
	if colorize {
		return ansiBold + title + ansiReset
	}
	return title
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	_, tty := terminalFD(file)
	return tty
}

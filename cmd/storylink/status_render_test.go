package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLinePlain(t *testing.T) {
	got := renderStatusLine("Session", statusWarn, "signed out", false)
	want := "  Session:      [warn] signed out"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineColorsOnlyTag(t *testing.T) {
	got := renderStatusLine("Load", statusOK, "story sent to the page", true)
	if !strings.Contains(got, ansiGreen+"[ok]"+ansiReset+" story sent") {
		t.Fatalf("expected colored tag, got %q", got)
	}
	if !strings.HasPrefix(got, "  Load:") {
		t.Fatalf("expected uncolored label, got %q", got)
	}
}

func TestRenderFieldAlignsCorrelation(t *testing.T) {
	short := renderField("Page", "http://127.0.0.1:7490")
	long := renderField("Correlation", "abc")
	if strings.Index(short, "http") != strings.Index(long, "abc") {
		t.Fatalf("expected aligned values:\n%q\n%q", short, long)
	}
}

func TestShouldColorizeSkipsNonTerminals(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("expected no color for a buffer")
	}
	if renderHeading(" Workspace ", false) != "Workspace" {
		t.Fatal("expected plain heading")
	}
}

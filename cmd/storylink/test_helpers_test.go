package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeTheirStory struct {
	server *httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

func newFakeTheirStory(t *testing.T) *fakeTheirStory {
	t.Helper()
	fake := &fakeTheirStory{calls: make(map[string]int)}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeTheirStory) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.Method+" "+r.URL.Path]++
	f.mu.Unlock()

	if r.URL.Path == "/signin" {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "pw" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"T"}`))
		return
	}
	if r.Header.Get("Authorization") != "T" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/stories":
		_, _ = w.Write([]byte(`[{"_id":"42","title":"Harbour Voices"},{"id":"nomedia","title":"Café Notes"}]`))
	case "/stories/42", "/stories/nomedia":
		id := strings.TrimPrefix(r.URL.Path, "/stories/")
		_, _ = fmt.Fprintf(w, `{"_id":%q,"title":"Story %s"}`, id, id)
	case "/stories/42/html", "/stories/nomedia/html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<article><section><p><span data-m="0" data-d="400">hello </span></p></section></article>`))
	case "/stories/42/transcript":
		_, _ = w.Write([]byte(`{"segments":[{"speaker":"Ann","start":0,"end":1,"text":"hello world"}]}`))
	case "/transcripts/42":
		_, _ = w.Write([]byte(`{"videoURL":"https://cdn.example/42.mp4"}`))
	case "/transcripts/nomedia":
		_, _ = w.Write([]byte(`{"title":"no media"}`))
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (f *fakeTheirStory) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

type cliTestEnv struct {
	service    *fakeTheirStory
	configPath string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(passwordEnv, "pw")
	t.Setenv("STORYLINK_API_KEY", "")

	service := newFakeTheirStory(t)
	env := &cliTestEnv{
		service:    service,
		configPath: filepath.Join(base, "storylink.toml"),
		stateDir:   filepath.Join(base, "state"),
	}
	writeTestConfig(t, env.configPath, service.server.URL, env.stateDir, filepath.Join(base, "logs"), closedAddress(t))
	return env
}

// closedAddress returns a loopback address nothing listens on.
func closedAddress(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(ts.URL, "http://")
	ts.Close()
	return addr
}

func writeTestConfig(t *testing.T, path, baseURL, stateDir, logDir, listen string) {
	t.Helper()
	content := fmt.Sprintf(`[service]
base_url = %q
api_key = "test-key"

[paths]
state_dir = %q
log_dir = %q

[page]
listen = %q

[session]
auto_login = false
`, baseURL, stateDir, logDir, listen)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package page

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storylink/internal/config"
	"storylink/internal/hyperaudio"
	"storylink/internal/logging"
	"storylink/internal/services"
	"storylink/internal/workspace"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const keepAliveInterval = 15 * time.Second

// StateReader exposes the workspace's current render targets.
type StateReader interface {
	Current(ctx context.Context) (workspace.State, error)
}

// Server hosts the player page.
type Server struct {
	listen string
	title  string
	state  StateReader
	broker *Broker
	logger *slog.Logger

	listener net.Listener
	server   *http.Server
}

type indexView struct {
	Title        string
	StoryTitle   string
	MediaSource  string
	MediaReloads int
	Markup       template.HTML
	Revision     int64
	PlayerID     string
	TranscriptID string
	InitEvent    string
}

type stateResponse struct {
	StoryID       string    `json:"story_id"`
	StoryTitle    string    `json:"story_title"`
	MediaSource   string    `json:"media_source"`
	MediaReloads  int       `json:"media_reloads"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Revision      int64     `json:"revision"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewServer builds a page server from the [page] section.
func NewServer(cfg *config.Config, state StateReader, broker *Broker, logger *slog.Logger) (*Server, error) {
	if cfg == nil || state == nil || broker == nil {
		return nil, errors.New("page server requires config, state, and broker")
	}
	srv := &Server{
		listen: strings.TrimSpace(cfg.Page.Listen),
		title:  cfg.Page.Title,
		state:  state,
		broker: broker,
		logger: logging.NewComponentLogger(logger, "page"),
	}
	// Event streams stay open, so only the header read is bounded.
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the page's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /transcript", s.handleTranscript)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("POST /notify", s.handleNotify)
	return mux
}

// Start listens on the configured address and serves until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("page listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("page server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("page server listening", logging.String("address", s.URL()))
	return nil
}

// URL returns the page address once listening.
func (s *Server) URL() string {
	if s.listener == nil {
		return "http://" + s.listen
	}
	return "http://" + s.listener.Addr().String()
}

// Stop closes event streams and shuts the server down.
func (s *Server) Stop() {
	s.broker.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state, err := s.state.Current(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	view := indexView{
		Title:        s.title,
		StoryTitle:   state.StoryTitle,
		MediaSource:  state.MediaSource,
		MediaReloads: state.MediaReloads,
		Markup:       template.HTML(state.TranscriptMarkup),
		Revision:     state.Revision,
		PlayerID:     hyperaudio.PlayerElementID,
		TranscriptID: hyperaudio.TranscriptElementID,
		InitEvent:    hyperaudio.InitEvent,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, view); err != nil {
		s.logger.Warn("render page failed", logging.Error(err))
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.state.Current(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(stateResponse{
		StoryID:       state.StoryID,
		StoryTitle:    state.StoryTitle,
		MediaSource:   state.MediaSource,
		MediaReloads:  state.MediaReloads,
		CorrelationID: state.CorrelationID,
		Revision:      state.Revision,
		UpdatedAt:     state.UpdatedAt,
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	state, err := s.state.Current(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(state.TranscriptMarkup))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	since := s.broker.Latest()
	if last := r.Header.Get("Last-Event-ID"); last != "" {
		if parsed, err := strconv.ParseUint(last, 10, 64); err == nil {
			since = parsed
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		waitCtx, cancel := context.WithTimeout(r.Context(), keepAliveInterval)
		events, next, err := s.broker.Fetch(waitCtx, since, true)
		cancel()
		switch {
		case errors.Is(err, ErrBrokerClosed):
			return
		case r.Context().Err() != nil:
			return
		case errors.Is(err, context.DeadlineExceeded):
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
			continue
		}
		for _, evt := range events {
			data, _ := json.Marshal(evt)
			_, _ = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", evt.Sequence, evt.Name, data)
		}
		flusher.Flush()
		since = next
	}
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r.RemoteAddr) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	var req notifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode notification: %w", err))
		return
	}
	ctx := services.WithStoryID(r.Context(), req.StoryID)
	ctx = services.WithRequestID(ctx, req.CorrelationID)
	if err := s.broker.Notify(ctx, req.Event); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("page request failed", logging.Int("status", status), logging.Error(err))
	http.Error(w, err.Error(), status)
}

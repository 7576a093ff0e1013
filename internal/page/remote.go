package page

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"syscall"
	"time"

	"storylink/internal/config"
	"storylink/internal/logging"
	"storylink/internal/services"
)

type notifyRequest struct {
	Event         string `json:"event"`
	StoryID       string `json:"story_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// RemoteNotifier forwards notifications to a page server running in another
// process. A page server that is not running is not an error.
type RemoteNotifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewRemoteNotifier targets the page server at the configured listen address.
func NewRemoteNotifier(cfg *config.Config, logger *slog.Logger) *RemoteNotifier {
	return &RemoteNotifier{
		endpoint: "http://" + strings.TrimSpace(cfg.Page.Listen) + "/notify",
		client:   &http.Client{Timeout: 3 * time.Second},
		logger:   logging.NewComponentLogger(logger, "page"),
	}
}

// Notify posts event to the page server.
func (n *RemoteNotifier) Notify(ctx context.Context, event string) error {
	req := notifyRequest{Event: event}
	req.StoryID, _ = services.StoryIDFromContext(ctx)
	req.CorrelationID, _ = services.RequestIDFromContext(ctx)
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			n.logger.Debug("page server not running; notification skipped", logging.String("event", event))
			return nil
		}
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("page server rejected notification: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

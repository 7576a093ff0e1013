package theirstory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const untitledStory = "Untitled Story"

// Session is the credential returned by a successful sign-in.
type Session struct {
	Token string
	Email string
}

// Story is a single recorded narrative. ID is normalized from `_id` or `id`;
// Fields keeps the full provider payload.
type Story struct {
	ID     string
	Title  string
	Fields map[string]any
}

// DisplayTitle returns the title or a placeholder for untitled stories.
func (s Story) DisplayTitle() string {
	if strings.TrimSpace(s.Title) == "" {
		return untitledStory
	}
	return s.Title
}

// UnmarshalJSON normalizes the provider's identifier variants.
func (s *Story) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode story: %w", err)
	}
	s.Fields = fields
	s.ID = firstID(fields, "_id", "id")
	s.Title, _ = fields["title"].(string)
	return nil
}

// MarshalJSON emits the provider fields with the normalized id and title.
func (s Story) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Fields)+2)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["id"] = s.ID
	out["title"] = s.Title
	return json.Marshal(out)
}

func firstID(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Segment is one time-coded span of a transcript. Start and End are seconds.
type Segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// Transcript is the JSON transcript returned by /stories/{id}/transcript.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// TranscriptData is the transcript metadata returned by /transcripts/{id}.
type TranscriptData struct {
	VideoURL string
	Fields   map[string]any
}

func (t *TranscriptData) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode transcript data: %w", err)
	}
	t.Fields = fields
	if url, ok := fields["videoURL"].(string); ok {
		t.VideoURL = strings.TrimSpace(url)
	}
	return nil
}

type signInRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	VisitorID string `json:"visitorId"`
}

type signInResponse struct {
	Token string `json:"token"`
}

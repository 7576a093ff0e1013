package workspace

import "time"

// State is what the page currently renders.
type State struct {
	StoryID          string
	StoryTitle       string
	MediaSource      string
	MediaReloads     int
	TranscriptMarkup string
	CorrelationID    string
	Revision         int64
	UpdatedAt        time.Time
}

// Empty reports whether nothing has been loaded yet.
func (s State) Empty() bool {
	return s.MediaSource == "" && s.TranscriptMarkup == ""
}

// Load is one completed story load.
type Load struct {
	ID              int64
	StoryID         string
	StoryTitle      string
	MediaSource     string
	TranscriptBytes int
	CorrelationID   string
	LoadedAt        time.Time
}

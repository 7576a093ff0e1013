package hyperaudio

import (
	"html"
	"math"
	"strconv"
	"strings"

	"storylink/internal/theirstory"
)

// InitEvent is dispatched after the transcript container receives new markup.
const InitEvent = "hyperaudioInit"

// Element ids the page exposes as render targets.
const (
	PlayerElementID     = "hyperplayer"
	TranscriptElementID = "hypertranscript"
)

// FormatTranscript renders transcript segments as Hyperaudio markup.
func FormatTranscript(transcript theirstory.Transcript) string {
	var b strings.Builder
	b.WriteString("<article><section>")
	for _, segment := range transcript.Segments {
		writeSegment(&b, segment)
	}
	b.WriteString("</section></article>")
	return b.String()
}

func writeSegment(b *strings.Builder, segment theirstory.Segment) {
	b.WriteString("<p>")
	startMs := segment.Start * 1000
	if speaker := strings.TrimSpace(segment.Speaker); speaker != "" {
		b.WriteString(`<span data-m="`)
		b.WriteString(strconv.FormatFloat(startMs, 'f', -1, 64))
		b.WriteString(`" data-d="0" class="speaker">[`)
		b.WriteString(html.EscapeString(speaker))
		b.WriteString("] </span>")
	}

	words := strings.Fields(segment.Text)
	if len(words) > 0 {
		span := (segment.End - segment.Start) * 1000
		if span < 0 {
			span = 0
		}
		avg := span / float64(len(words))
		current := startMs
		for _, word := range words {
			b.WriteString(`<span data-m="`)
			b.WriteString(strconv.FormatInt(int64(math.Round(current)), 10))
			b.WriteString(`" data-d="`)
			b.WriteString(strconv.FormatInt(int64(math.Round(avg)), 10))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(word))
			b.WriteString(" </span>")
			current += avg
		}
	}
	b.WriteString("</p>")
}

// Package hyperaudio produces the time-coded transcript markup consumed by the
// Hyperaudio highlighting library and names the event that tells it to rescan.
//
// FormatTranscript turns a JSON transcript into `<article><section>` markup with
// one paragraph per segment, an optional speaker label, and one span per word
// carrying `data-m` (start, ms) and `data-d` (duration, ms) attributes. Word
// timings are an even split of the segment duration.
package hyperaudio

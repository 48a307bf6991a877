package chat

import "strings"

// Turn is one message block of a transcript.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// ScanTurns re-derives the ordered turn list from raw transcript text by
// prefix-matching the two fixed speaker markers. Header lines before the
// first marker are skipped. This is a presentation aid; the transcript
// file stays the source of truth and is only ever appended to.
func ScanTurns(transcript string) []Turn {
	var turns []Turn
	var current *Turn

	flush := func() {
		if current != nil {
			current.Text = strings.TrimRight(current.Text, "\n \t")
			turns = append(turns, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(transcript, "\n") {
		speaker, rest, ok := matchMarker(line)
		if ok {
			flush()
			current = &Turn{Speaker: speaker, Text: rest}
			continue
		}
		if current != nil {
			current.Text += "\n" + line
		}
	}
	flush()
	return turns
}

func matchMarker(line string) (Speaker, string, bool) {
	for _, s := range []Speaker{SpeakerUser, SpeakerAssistant} {
		marker := s.Marker()
		if strings.HasPrefix(line, marker) {
			return s, strings.TrimPrefix(strings.TrimPrefix(line, marker), " "), true
		}
	}
	return "", "", false
}

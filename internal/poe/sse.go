package poe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const (
	EventText  = "text"
	EventError = "error"
	EventDone  = "done"

	MediaTypeEventStream = "text/event-stream"

	// ErrorText is the only failure detail a caller ever sees.
	ErrorText = "Oops! Something went wrong while processing your request."
)

type Event struct {
	Name string
	Data any
}

type textData struct {
	Text string `json:"text"`
}

// WriteEvent writes one named event. Data is JSON on a single line, so no
// multi-line data framing is needed.
func WriteEvent(w io.Writer, e Event) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.Data); err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Name, err)
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}

// Events returns the two-event stream for an outcome: a text event on
// success or an error event carrying ErrorText, always followed by done.
func Events(text string, err error) []Event {
	first := Event{Name: EventText, Data: textData{Text: text}}
	if err != nil {
		first = Event{Name: EventError, Data: textData{Text: ErrorText}}
	}
	return []Event{first, {Name: EventDone, Data: struct{}{}}}
}

// Format renders the full response body for an outcome.
func Format(text string, err error) []byte {
	var buf bytes.Buffer
	for _, e := range Events(text, err) {
		// bytes.Buffer writes and the fixed payload types cannot fail
		_ = WriteEvent(&buf, e)
	}
	return buf.Bytes()
}

package poe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Success(t *testing.T) {
	got := string(Format("Here are your tasks.", nil))
	want := "event: text\ndata: {\"text\":\"Here are your tasks.\"}\n\n" +
		"event: done\ndata: {}\n\n"
	assert.Equal(t, want, got)
}

func TestFormat_ErrorHidesDetail(t *testing.T) {
	got := string(Format("partial", errors.New("dial tcp: connection refused")))
	want := "event: error\ndata: {\"text\":\"" + ErrorText + "\"}\n\n" +
		"event: done\ndata: {}\n\n"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "connection refused")
	assert.NotContains(t, got, "partial")
}

func TestFormat_EscapesMultilineText(t *testing.T) {
	got := string(Format("line one\nline <two> & \"three\"", nil))
	assert.Contains(t, got, `data: {"text":"line one\nline <two> & \"three\""}`)
	assert.Equal(t, 1, bytes.Count([]byte(got), []byte("event: done")))
}

func TestEvents_AlwaysEndWithDone(t *testing.T) {
	for _, err := range []error{nil, errors.New("boom")} {
		events := Events("x", err)
		require.Len(t, events, 2)
		assert.Equal(t, EventDone, events[1].Name)
	}
	assert.Equal(t, EventText, Events("x", nil)[0].Name)
	assert.Equal(t, EventError, Events("x", errors.New("boom"))[0].Name)
}

func TestWriteEvent_EncodingError(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEvent(&buf, Event{Name: EventText, Data: make(chan int)})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

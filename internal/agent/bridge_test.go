package agent

import (
	"reflect"
	"testing"

	"github.com/chris/taskrelay/internal/llm"
)

func TestToModelMessages_PrependsInstruction(t *testing.T) {
	got := ToModelMessages("SYSTEM", nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], llm.UserText("SYSTEM")) {
		t.Errorf("expected instruction turn, got %+v", got[0])
	}
}

func TestToModelMessages_NormalizesRoles(t *testing.T) {
	turns := []Turn{
		{Role: "system", Content: "platform preamble"},
		{Role: "user", Content: "one"},
		{Role: "bot", Content: "two"},
		{Role: "user", Content: "three"},
		{Role: "assistant", Content: "four"},
		{Role: "tool", Content: "dropped"},
		{Role: "user", Content: "three"},
	}

	got := ToModelMessages("SYSTEM", turns)
	want := []llm.Message{
		llm.UserText("SYSTEM"),
		llm.UserText("one"),
		llm.AssistantText("two"),
		llm.UserText("three"),
		llm.AssistantText("four"),
		llm.UserText("three"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToModelMessages() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestToModelMessages_InstructionStaysFirst(t *testing.T) {
	got := ToModelMessages("SYSTEM", []Turn{{Role: "bot", Content: "I spoke first"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Role != llm.RoleUser {
		t.Errorf("first role = %q, want user", got[0].Role)
	}
	if !reflect.DeepEqual(got[1], llm.AssistantText("I spoke first")) {
		t.Errorf("second message = %+v", got[1])
	}
}

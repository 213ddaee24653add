package chat

import (
	"strings"
	"testing"
	"time"
)

func msg(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
}

func TestFormatHistory_Empty(t *testing.T) {
	if got := FormatHistory(nil, HistoryWindow); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := FormatHistory([]Message{msg(RoleUser, "hi")}, 0); got != "" {
		t.Fatalf("expected empty string for zero limit, got %q", got)
	}
}

func TestFormatHistory_Labels(t *testing.T) {
	got := FormatHistory([]Message{
		msg(RoleUser, "Who's a good boy?"),
		msg(RolePet, "Woof! Me!"),
	}, HistoryWindow)

	want := "\nRecent conversation:\nHuman: Who's a good boy?\nYou: Woof! Me!\n"
	if got != want {
		t.Fatalf("unexpected block:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatHistory_TakesTrailingWindow(t *testing.T) {
	msgs := make([]Message, 0, 8)
	for i := 0; i < 8; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RolePet
		}
		msgs = append(msgs, msg(role, "m"+string(rune('0'+i))))
	}

	got := FormatHistory(msgs, 5)

	// Solo los últimos 5 (m3..m7), en orden cronológico
	if strings.Contains(got, "m2") {
		t.Fatalf("old message leaked into window:\n%s", got)
	}
	for _, want := range []string{"m3", "m4", "m5", "m6", "m7"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %s in window:\n%s", want, got)
		}
	}
	if strings.Index(got, "m3") > strings.Index(got, "m7") {
		t.Fatalf("window out of order:\n%s", got)
	}
}

package search

import (
	"fmt"
	"testing"

	"roomdir/internal/directory"
)

type fakeInput struct {
	value string
}

func (f *fakeInput) SetValue(text string) { f.value = text }

func manyRooms(n int) []directory.Room {
	out := make([]directory.Room, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, directory.Room{ID: directory.ID(fmt.Sprint(i)), Name: fmt.Sprintf("Lab %02d", i)})
	}
	return out
}

func TestType_BoundedSuggestions(t *testing.T) {
	c := New(manyRooms(10), nil, nil)
	c.Type("lab")

	if got := len(c.Suggestions()); got != MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %d", MaxSuggestions, got)
	}
	if c.Cursor() != NoCursor {
		t.Fatalf("expected cursor none, got %d", c.Cursor())
	}
	if c.Suggestions()[0].ID != "1" {
		t.Fatalf("expected snapshot order, first was %s", c.Suggestions()[0].ID)
	}
	if !c.Active() {
		t.Fatalf("expected suggesting state")
	}
}

func TestType_EmptyQueryIsIdle(t *testing.T) {
	c := New(manyRooms(3), nil, nil)
	c.Type("lab")
	c.Type("  ")
	if c.Active() || len(c.Suggestions()) != 0 {
		t.Fatalf("expected idle after clearing the query")
	}
}

func TestType_NoMatchesIsEmptyNotError(t *testing.T) {
	c := New(manyRooms(3), nil, nil)
	c.Type("zzz")
	if len(c.Suggestions()) != 0 {
		t.Fatalf("expected no suggestions")
	}
	if !c.Active() {
		t.Fatalf("panel stays open (and empty) for a non-empty query")
	}
	if c.Key(KeyEnter) {
		t.Fatalf("enter with no suggestions must be a no-op")
	}
	if c.Key(KeyDown) || c.Cursor() != NoCursor {
		t.Fatalf("arrow keys with no suggestions must leave the cursor unset")
	}
}

func TestCursor_ClampsWithoutWrapping(t *testing.T) {
	c := New(manyRooms(3), nil, nil)
	c.Type("lab")

	c.Key(KeyUp)
	if c.Cursor() != 0 {
		t.Fatalf("expected up from none to clamp at 0, got %d", c.Cursor())
	}
	for i := 0; i < 10; i++ {
		c.Key(KeyDown)
		if c.Cursor() < 0 || c.Cursor() > len(c.Suggestions())-1 {
			t.Fatalf("cursor out of bounds: %d", c.Cursor())
		}
	}
	if c.Cursor() != 2 {
		t.Fatalf("expected cursor clamped at 2, got %d", c.Cursor())
	}
	for i := 0; i < 10; i++ {
		c.Key(KeyUp)
	}
	if c.Cursor() != 0 {
		t.Fatalf("expected cursor clamped at 0, got %d", c.Cursor())
	}
}

func TestEnter_DefaultsToFirstSuggestion(t *testing.T) {
	input := &fakeInput{}
	var navigated []directory.ID
	c := New(manyRooms(3), input, func(id directory.ID) { navigated = append(navigated, id) })
	c.Type("lab")

	if !c.Key(KeyEnter) {
		t.Fatalf("expected enter to select")
	}
	if len(navigated) != 1 || navigated[0] != "1" {
		t.Fatalf("expected navigation to room 1, got %v", navigated)
	}
	if input.value != "Lab 01" {
		t.Fatalf("expected input to show room name, got %q", input.value)
	}
	if c.Active() || len(c.Suggestions()) != 0 || c.Cursor() != NoCursor {
		t.Fatalf("expected suggestions cleared after selection")
	}
}

func TestEnter_UsesCursor(t *testing.T) {
	var navigated directory.ID
	c := New(manyRooms(3), nil, func(id directory.ID) { navigated = id })
	c.Type("lab")
	c.Key(KeyDown)
	c.Key(KeyDown)
	c.Key(KeyEnter)
	if navigated != "2" {
		t.Fatalf("expected room 2, got %q", navigated)
	}
}

func TestPick_FallsBackToIDForInputText(t *testing.T) {
	input := &fakeInput{}
	c := New([]directory.Room{{ID: "X-1"}}, input, nil)
	c.Type("x-")
	if !c.Pick(0) {
		t.Fatalf("expected pick to succeed")
	}
	if input.value != "X-1" {
		t.Fatalf("expected id as input text, got %q", input.value)
	}
	if c.Pick(3) {
		t.Fatalf("out-of-range pick must fail")
	}
}

func TestEscapeAndBlur_Reset(t *testing.T) {
	c := New(manyRooms(3), nil, nil)
	changes := 0
	c.OnChange(func() { changes++ })

	c.Type("lab")
	c.Key(KeyDown)
	c.Key(KeyEscape)
	if c.Active() || len(c.Suggestions()) != 0 || c.Cursor() != NoCursor {
		t.Fatalf("escape must reset to idle")
	}

	c.Type("lab")
	c.Key(KeyDown)
	c.Blur()
	if c.Active() || len(c.Suggestions()) != 0 || c.Cursor() != NoCursor {
		t.Fatalf("blur must reset to idle")
	}
	if changes == 0 {
		t.Fatalf("expected change notifications")
	}
}

func TestParseKey(t *testing.T) {
	for in, want := range map[string]Key{"ArrowDown": KeyDown, "up": KeyUp, "Return": KeyEnter, "esc": KeyEscape} {
		got, ok := ParseKey(in)
		if !ok || got != want {
			t.Fatalf("ParseKey(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseKey("tab"); ok {
		t.Fatalf("expected tab to be unknown")
	}
}

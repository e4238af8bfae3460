package core_test

import (
	"testing"

	"github.com/jotkit/jot/pkg/core"
)

func TestUpdate_Set(t *testing.T) {
	prev := core.Notes{{ID: 1, Text: "old"}}
	next := core.Notes{{ID: 2, Text: "new"}}

	u := core.Set(next)
	if !u.IsSet() {
		t.Error("Set update not tagged as literal")
	}

	got := u.Apply(prev)
	if !got.Equal(next) {
		t.Errorf("Set ignored its literal: %v", got)
	}
}

func TestUpdate_Transform(t *testing.T) {
	prev := core.Notes{{ID: 1, Text: "keep"}}

	u := core.Transform(func(notes core.Notes) core.Notes {
		return notes.Append(core.Note{ID: 2, Text: "added"})
	})
	if u.IsSet() {
		t.Error("Transform update tagged as literal")
	}

	got := u.Apply(prev)
	if len(got) != 2 || got[1].Text != "added" {
		t.Errorf("Transform result wrong: %v", got)
	}
}

func TestUpdate_TransformGetsACopy(t *testing.T) {
	prev := core.Notes{{ID: 1, Text: "original"}}

	u := core.Transform(func(notes core.Notes) core.Notes {
		notes[0].Text = "scribbled"
		return notes
	})
	_ = u.Apply(prev)

	if prev[0].Text != "original" {
		t.Errorf("Transform aliased the previous list: %v", prev)
	}
}

func TestUpdate_NilTransformKeepsState(t *testing.T) {
	prev := core.Notes{{ID: 1, Text: "stay"}}

	got := core.Transform(nil).Apply(prev)
	if !got.Equal(prev) {
		t.Errorf("nil transform changed the list: %v", got)
	}
}

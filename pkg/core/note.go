package core

import (
	"fmt"
	"time"
)

// Note is the central entity of the domain.
// Its ID is the Unix millisecond timestamp of its creation. Two notes created
// within the same millisecond would collide; the domain accepts that risk
// rather than paying for a uniqueness scheme.
type Note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// NewNote stamps text with an ID derived from now.
func NewNote(now time.Time, text string) Note {
	return Note{ID: now.UnixMilli(), Text: text}
}

// Notes is the ordered note list. Display order is insertion order;
// nothing in the domain ever sorts it.
type Notes []Note

// Append returns the list with n added at the end.
func (ns Notes) Append(n Note) Notes {
	out := make(Notes, 0, len(ns)+1)
	out = append(out, ns...)
	return append(out, n)
}

// Replace returns the list with the text of the note identified by id
// swapped. Length and order are preserved. Colliding ids are all updated,
// mirroring a map over the list. The second return reports whether the id
// was found; when it is false the result is an unchanged copy.
func (ns Notes) Replace(id int64, text string) (Notes, bool) {
	out := ns.Clone()
	found := false
	for i := range out {
		if out[i].ID == id {
			out[i].Text = text
			found = true
		}
	}
	return out, found
}

// Remove returns the list without the note identified by id, preserving the
// relative order of the rest. Removing an unknown id yields an unchanged
// copy and false.
func (ns Notes) Remove(id int64) (Notes, bool) {
	out := make(Notes, 0, len(ns))
	found := false
	for _, n := range ns {
		if n.ID == id {
			found = true
			continue
		}
		out = append(out, n)
	}
	return out, found
}

// Find returns the note identified by id.
func (ns Notes) Find(id int64) (Note, bool) {
	for _, n := range ns {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Clone returns an independent copy of the list.
func (ns Notes) Clone() Notes {
	if ns == nil {
		return nil
	}
	out := make(Notes, len(ns))
	copy(out, ns)
	return out
}

// Equal reports whether both lists hold the same notes in the same order.
func (ns Notes) Equal(other Notes) bool {
	if len(ns) != len(other) {
		return false
	}
	for i := range ns {
		if ns[i] != other[i] {
			return false
		}
	}
	return true
}

// EventType represents the kind of change observed on a stored slot.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents an external change to a stored slot.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}

package core

// Update describes a state change as data rather than behavior.
// It is either a literal replacement (Set) or a pure derivation of the
// previous list (Transform). Keeping the two cases tagged means callers
// never have to inspect a value to learn whether it is a function.
type Update struct {
	kind      updateKind
	literal   Notes
	transform func(Notes) Notes
}

type updateKind uint8

const (
	updateSet updateKind = iota
	updateTransform
)

// Set builds an Update that replaces the list wholesale.
func Set(notes Notes) Update {
	return Update{kind: updateSet, literal: notes}
}

// Transform builds an Update that derives the next list from the previous
// one. fn receives a private copy; it must not keep side channels.
func Transform(fn func(Notes) Notes) Update {
	return Update{kind: updateTransform, transform: fn}
}

// IsSet reports whether the update is a literal replacement.
func (u Update) IsSet() bool {
	return u.kind == updateSet
}

// Apply resolves the update against the previous list.
func (u Update) Apply(prev Notes) Notes {
	if u.kind == updateTransform {
		if u.transform == nil {
			return prev
		}
		return u.transform(prev.Clone())
	}
	return u.literal
}

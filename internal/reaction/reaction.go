// Package reaction holds the like/dislike toggle rules for a single
// (user, review) pair. It has no storage dependencies; the repository layer
// feeds it the row it locked and applies whatever transition comes back.
package reaction

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the reaction a user currently holds on a review. None means there
// is no row for the pair.
type Kind string

const (
	None    Kind = ""
	Like    Kind = "like"
	Dislike Kind = "dislike"
)

// ErrInvalidAction is returned when Next is asked to apply None or an
// unknown kind.
var ErrInvalidAction = errors.New("reaction: action must be like or dislike")

// ParseKind accepts "like" and "dislike".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Like, Dislike:
		return Kind(s), nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func (k Kind) Valid() bool { return k == Like || k == Dislike }

// MarshalJSON renders None as null.
func (k Kind) MarshalJSON() ([]byte, error) {
	if k == None {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*k = None
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = Kind(s)
	return nil
}

// Scan lets aggregate queries select a nullable kind column.
func (k *Kind) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*k = None
	case string:
		*k = Kind(v)
	case []byte:
		*k = Kind(v)
	default:
		return fmt.Errorf("reaction: cannot scan %T into Kind", src)
	}
	return nil
}

func (k Kind) Value() (driver.Value, error) {
	if k == None {
		return nil, nil
	}
	return string(k), nil
}

// Outcome names what happened to the stored row.
type Outcome string

const (
	Added   Outcome = "added"
	Removed Outcome = "removed"
	Changed Outcome = "changed"
)

// Transition is the result of applying an action to the current state.
type Transition struct {
	From    Kind
	To      Kind
	Outcome Outcome
}

// Next applies a like or dislike action to the current state:
//
//	NONE     + like -> LIKED     (added)    NONE     + dislike -> DISLIKED (added)
//	LIKED    + like -> NONE      (removed)  LIKED    + dislike -> DISLIKED (changed)
//	DISLIKED + like -> LIKED     (changed)  DISLIKED + dislike -> NONE     (removed)
func Next(current, action Kind) (Transition, error) {
	if !action.Valid() {
		return Transition{}, ErrInvalidAction
	}
	switch current {
	case None:
		return Transition{From: None, To: action, Outcome: Added}, nil
	case action:
		return Transition{From: current, To: None, Outcome: Removed}, nil
	case Like, Dislike:
		return Transition{From: current, To: action, Outcome: Changed}, nil
	}
	return Transition{}, fmt.Errorf("reaction: unknown current state %q", current)
}

// Created reports whether the transition inserts a new row.
func (t Transition) Created() bool { return t.Outcome == Added }

// Message is the human readable description returned to clients.
func (t Transition) Message() string {
	switch t.Outcome {
	case Added:
		if t.To == Like {
			return "Review liked."
		}
		return "Review disliked."
	case Removed:
		if t.From == Like {
			return "Like removed."
		}
		return "Dislike removed."
	case Changed:
		return fmt.Sprintf("Reaction changed from %s to %s.", t.From, t.To)
	}
	return ""
}

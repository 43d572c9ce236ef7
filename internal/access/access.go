// Package access decides whether an actor may perform an operation on a
// resource. Handlers resolve the actor and load the resource; the decision
// itself lives here so every endpoint applies the same rules.
package access

import "errors"

var (
	// ErrUnauthenticated maps to 401.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden maps to 403.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

type Operation int

const (
	Read Operation = iota
	Create
	Update
	Delete
	React
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case React:
		return "react"
	}
	return "unknown"
}

type Kind string

const (
	Movie    Kind = "movie"
	Review   Kind = "review"
	Reaction Kind = "reaction"
	Profile  Kind = "profile"
)

// Actor is the caller. The zero value is an anonymous caller.
type Actor struct {
	UserID string
}

func (a Actor) Authenticated() bool { return a.UserID != "" }

// Resource identifies what is being acted on. OwnerID is only meaningful
// for kinds that carry ownership.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// owned kinds can only be mutated by their owner; profiles cannot even be
// read by someone else.
func (r Resource) owned() bool { return r.Kind == Review || r.Kind == Profile }

// Authorize returns nil when actor may perform op on res, ErrUnauthenticated
// when the operation needs a logged-in caller, and ErrForbidden when the
// caller is logged in but not the owner.
func Authorize(actor Actor, res Resource, op Operation) error {
	if op == Read && res.Kind != Profile {
		return nil
	}
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	switch op {
	case Create, React:
		return nil
	case Read, Update, Delete:
		if res.owned() && res.OwnerID != actor.UserID {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

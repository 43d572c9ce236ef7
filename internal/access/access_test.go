package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	anon := Actor{}
	alice := Actor{UserID: "alice"}
	bob := Actor{UserID: "bob"}

	aliceReview := Resource{Kind: Review, OwnerID: "alice"}
	movie := Resource{Kind: Movie}
	reactions := Resource{Kind: Reaction}

	cases := []struct {
		name  string
		actor Actor
		res   Resource
		op    Operation
		want  error
	}{
		{"anon reads movie", anon, movie, Read, nil},
		{"anon reads review", anon, aliceReview, Read, nil},
		{"anon lists reactions", anon, reactions, Read, nil},
		{"anon creates movie", anon, movie, Create, ErrUnauthenticated},
		{"anon creates review", anon, Resource{Kind: Review}, Create, ErrUnauthenticated},
		{"anon updates movie", anon, movie, Update, ErrUnauthenticated},
		{"anon deletes movie", anon, movie, Delete, ErrUnauthenticated},
		{"anon reacts", anon, reactions, React, ErrUnauthenticated},
		{"anon deletes review", anon, aliceReview, Delete, ErrUnauthenticated},
		{"user creates movie", bob, movie, Create, nil},
		{"user updates movie without ownership", bob, movie, Update, nil},
		{"user deletes movie without ownership", bob, movie, Delete, nil},
		{"user reacts", bob, reactions, React, nil},
		{"owner updates review", alice, aliceReview, Update, nil},
		{"owner deletes review", alice, aliceReview, Delete, nil},
		{"non-owner updates review", bob, aliceReview, Update, ErrForbidden},
		{"non-owner deletes review", bob, aliceReview, Delete, ErrForbidden},
		{"owner reads profile", alice, Resource{Kind: Profile, OwnerID: "alice"}, Read, nil},
		{"anon reads profile", anon, Resource{Kind: Profile, OwnerID: "alice"}, Read, ErrUnauthenticated},
		{"other reads profile", bob, Resource{Kind: Profile, OwnerID: "alice"}, Read, ErrForbidden},
		{"unknown op", bob, movie, Operation(99), ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.actor, tc.res, tc.op))
		})
	}
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, "unknown", Operation(42).String())
}

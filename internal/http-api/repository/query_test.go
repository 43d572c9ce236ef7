package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Number: 3, Size: MaxPageSize}, Page{Number: 3, Size: 1000}.Normalize())
	assert.Equal(t, 20, Page{Number: 3, Size: 10}.Offset())
}

func TestBuildOrder(t *testing.T) {
	allowed := map[string]orderColumn{
		"rating":         {expr: "reviews.rating"},
		"likes_count":    {expr: "likes_count"},
		"average_rating": {expr: "average_rating", nullable: true},
	}
	const fallback = "reviews.created_at DESC"
	const tiebreak = "reviews.id DESC"

	cases := []struct {
		raw  string
		want string
	}{
		{"", "reviews.created_at DESC, reviews.id DESC"},
		{"rating", "reviews.rating ASC, reviews.id DESC"},
		{"-likes_count", "likes_count DESC, reviews.id DESC"},
		{"-likes_count, rating", "likes_count DESC, reviews.rating ASC, reviews.id DESC"},
		{"average_rating", "average_rating ASC NULLS LAST, reviews.id DESC"},
		{"-average_rating", "average_rating DESC NULLS LAST, reviews.id DESC"},
		{"password_hash", "reviews.created_at DESC, reviews.id DESC"},
		{"rating,-rating", "reviews.rating ASC, reviews.id DESC"},
		{"rating; DROP TABLE reviews", "reviews.created_at DESC, reviews.id DESC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, buildOrder(tc.raw, allowed, fallback, tiebreak), tc.raw)
	}
}

func TestSearchClause(t *testing.T) {
	where, args := searchClause("dark knight", "movies.title", "movies.genre")
	assert.Equal(t,
		"(COALESCE(movies.title, '') ILIKE ? OR COALESCE(movies.genre, '') ILIKE ?) AND "+
			"(COALESCE(movies.title, '') ILIKE ? OR COALESCE(movies.genre, '') ILIKE ?)",
		where)
	assert.Equal(t, []interface{}{"%dark%", "%dark%", "%knight%", "%knight%"}, args)

	where, args = searchClause("   ", "movies.title")
	assert.Empty(t, where)
	assert.Nil(t, args)

	_, args = searchClause("100%_done", "movies.title")
	assert.Equal(t, []interface{}{`%100\%\_done%`}, args)
}

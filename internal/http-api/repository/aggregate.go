package repository

// Listing queries compute their aggregates in the same statement that
// fetches the page: one LEFT JOIN plus GROUP BY per listing, never a query
// per row.

const movieStatsSelect = "movies.*, " +
	"AVG(reviews.rating)::float8 AS average_rating, " +
	"COUNT(reviews.id) AS review_count"

const reviewStatsSelect = "reviews.*, " +
	"users.username AS username, " +
	"movies.title AS movie_title, " +
	"SUM(CASE WHEN reactions.kind = 'like' THEN 1 ELSE 0 END) AS likes_count, " +
	"SUM(CASE WHEN reactions.kind = 'dislike' THEN 1 ELSE 0 END) AS dislikes_count, " +
	"MAX(CASE WHEN reactions.user_id = ? THEN reactions.kind END) AS my_reaction"

const reviewStatsGroup = "reviews.id, users.username, movies.title"

var movieOrdering = map[string]orderColumn{
	"title":          {expr: "movies.title"},
	"release_year":   {expr: "movies.release_year", nullable: true},
	"created_at":     {expr: "movies.created_at"},
	"average_rating": {expr: "average_rating", nullable: true},
	"review_count":   {expr: "review_count"},
}

var reviewOrdering = map[string]orderColumn{
	"rating":         {expr: "reviews.rating"},
	"created_at":     {expr: "reviews.created_at"},
	"likes_count":    {expr: "likes_count"},
	"dislikes_count": {expr: "dislikes_count"},
}

const (
	movieDefaultOrder  = "movies.created_at DESC"
	movieTiebreak      = "movies.created_at DESC, movies.id DESC"
	reviewDefaultOrder = "reviews.created_at DESC"
	reviewTiebreak     = "reviews.created_at DESC, reviews.id DESC"
)

// viewerArg is the bind value for the my_reaction column. Anonymous viewers
// bind NULL so the CASE never matches.
func viewerArg(viewerID string) interface{} {
	if viewerID == "" {
		return nil
	}
	return viewerID
}

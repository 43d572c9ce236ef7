package command

import (
	"fmt"
	"net/url"
	"strconv"

	"moviereviews/internal/http-api/dto"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review commands",
	Long:  `List reviews, write one review per movie, and edit or delete your own.`,
}

var listReviewsCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		for _, name := range []string{"movie", "rating", "search", "ordering"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				q.Set(name, v)
			}
		}
		return listReviews(cmd, "", q)
	},
}

var byMovieCmd = &cobra.Command{
	Use:   "by-movie [title]",
	Short: "List reviews of a movie looked up by title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReviews(cmd, "by-movie", url.Values{"title": {args[0]}})
	},
}

var topLikedCmd = &cobra.Command{
	Use:   "top-liked",
	Short: "List the most liked reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listReviews(cmd, "top-liked", url.Values{})
	},
}

var createReviewCmd = &cobra.Command{
	Use:   "create [movie-id] [rating] [content]",
	Short: "Review a movie (rating 1-5)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		movieID, err := parseID("movie", args[0])
		if err != nil {
			return err
		}
		rating, err := parseRating(args[1])
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		r, err := c.CreateReview(ctx, dto.CreateReviewRequest{Movie: movieID, Rating: &rating, Content: args[2]})
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		fmt.Printf("✓ Review %d created for %q\n", r.ID, r.MovieTitle)
		return nil
	},
}

var updateReviewCmd = &cobra.Command{
	Use:   "update [review-id]",
	Short: "Edit your review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("review", args[0])
		if err != nil {
			return err
		}
		var req dto.UpdateReviewRequest
		if cmd.Flags().Changed("rating") {
			raw, _ := cmd.Flags().GetString("rating")
			rating, err := parseRating(raw)
			if err != nil {
				return err
			}
			req.Rating = &rating
		}
		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			req.Content = &content
		}
		if req.Rating == nil && req.Content == nil {
			return fmt.Errorf("nothing to update, pass --rating and/or --content")
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		r, err := c.UpdateReview(ctx, id, req)
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		fmt.Println("✓ Review updated successfully!")
		printReview(*r)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [review-id]",
	Short: "Delete your review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("review", args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.DeleteReview(ctx, id); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		fmt.Printf("✓ Review %d deleted.\n", id)
		return nil
	},
}

func listReviews(cmd *cobra.Command, variant string, q url.Values) error {
	setPageFlags(cmd, q)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	page, err := GetClient().ListReviews(ctx, variant, q)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	if len(page.Results) == 0 {
		fmt.Println("No reviews found.")
		return nil
	}
	for _, r := range page.Results {
		printReview(r)
	}
	printPageFooter(page.Count, page.Next)
	return nil
}

func printReview(r dto.ReviewResponse) {
	mine := ""
	if r.MyReaction != "" {
		mine = fmt.Sprintf("  (you: %s)", r.MyReaction)
	}
	fmt.Printf("[%d] %s by %s  %d/5  +%d -%d%s\n", r.ID, r.MovieTitle, r.User, r.Rating, r.LikesCount, r.DislikesCount, mine)
	fmt.Printf("    %s\n", r.Content)
	fmt.Printf("    updated %s\n", r.UpdatedAt.Format(timeLayout))
}

func parseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 5 {
		return 0, fmt.Errorf("rating must be between 1 and 5")
	}
	return rating, nil
}

func init() {
	reviewCmd.AddCommand(listReviewsCmd, byMovieCmd, topLikedCmd, createReviewCmd, updateReviewCmd, deleteReviewCmd)

	listReviewsCmd.Flags().String("movie", "", "movie ID")
	listReviewsCmd.Flags().String("rating", "", "exact rating")
	listReviewsCmd.Flags().String("search", "", "search movie title")
	listReviewsCmd.Flags().String("ordering", "", "e.g. -likes_count, rating, -created_at")
	for _, c := range []*cobra.Command{listReviewsCmd, byMovieCmd, topLikedCmd} {
		addPageFlags(c)
	}

	updateReviewCmd.Flags().String("rating", "", "new rating 1-5")
	updateReviewCmd.Flags().String("content", "", "new content")
}

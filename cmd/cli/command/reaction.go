package command

import (
	"fmt"

	"moviereviews/internal/reaction"

	"github.com/spf13/cobra"
)

var reactionCmd = &cobra.Command{
	Use:   "reaction",
	Short: "Like, dislike and inspect reactions on reviews",
	Long: `Reactions toggle: liking a review you already liked removes the like,
and disliking a liked review switches the reaction.`,
}

func reactCommand(action reaction.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " [review-id]",
		Short: fmt.Sprintf("Toggle a %s on a review", action),
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

			resp, err := c.React(ctx, id, string(action))
			if err != nil {
				return fmt.Errorf("failed to %s review: %w", action, err)
			}
			fmt.Printf("✓ %s\n", resp.Message)
			return nil
		},
	}
}

var listReactionsCmd = &cobra.Command{
	Use:   "list [review-id]",
	Short: "Show who liked and disliked a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("review", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := GetClient().Reactions(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list reactions: %w", err)
		}
		fmt.Printf("Likes (%d):\n", s.LikesCount)
		for _, r := range s.Likers {
			fmt.Printf("  %s  %s\n", r.Username, r.ReactedAt.Format(timeLayout))
		}
		fmt.Printf("Dislikes (%d):\n", s.DislikesCount)
		for _, r := range s.Dislikers {
			fmt.Printf("  %s  %s\n", r.Username, r.ReactedAt.Format(timeLayout))
		}
		return nil
	},
}

func init() {
	reactionCmd.AddCommand(reactCommand(reaction.Like), reactCommand(reaction.Dislike), listReactionsCmd)
}

package command

import (
	"fmt"
	"net/url"
	"strconv"

	"moviereviews/internal/http-api/dto"

	"github.com/spf13/cobra"
)

var movieCmd = &cobra.Command{
	Use:   "movie",
	Short: "Movie catalogue commands",
	Long:  `Browse movies with their aggregate rating, add movies and remove them.`,
}

var listMoviesCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		for _, name := range []string{"genre", "search", "ordering"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				q.Set(name, v)
			}
		}
		if year, _ := cmd.Flags().GetInt("year"); year > 0 {
			q.Set("release_year", strconv.Itoa(year))
		}
		setPageFlags(cmd, q)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		page, err := GetClient().ListMovies(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to list movies: %w", err)
		}
		if len(page.Results) == 0 {
			fmt.Println("No movies found.")
			return nil
		}
		for _, m := range page.Results {
			printMovieLine(m)
		}
		printPageFooter(page.Count, page.Next)
		return nil
	},
}

var getMovieCmd = &cobra.Command{
	Use:   "get [movie-id]",
	Short: "Show one movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("movie", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		m, err := GetClient().GetMovie(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get movie: %w", err)
		}
		printMovieLine(*m)
		if m.Description != "" {
			fmt.Println(m.Description)
		}
		return nil
	},
}

var createMovieCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Add a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.CreateMovieRequest{Title: args[0]}
		req.Genre, _ = cmd.Flags().GetString("genre")
		req.Description, _ = cmd.Flags().GetString("description")
		if year, _ := cmd.Flags().GetInt("year"); year > 0 {
			req.ReleaseYear = &year
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		m, err := c.CreateMovie(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create movie: %w", err)
		}
		fmt.Printf("✓ Movie created with ID %d\n", m.ID)
		return nil
	},
}

var deleteMovieCmd = &cobra.Command{
	Use:   "delete [movie-id]",
	Short: "Delete a movie and its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("movie", args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.DeleteMovie(ctx, id); err != nil {
			return fmt.Errorf("failed to delete movie: %w", err)
		}
		fmt.Printf("✓ Movie %d deleted.\n", id)
		return nil
	},
}

func printMovieLine(m dto.MovieResponse) {
	avg := "-"
	if m.AverageRating != nil {
		avg = fmt.Sprintf("%.2f", *m.AverageRating)
	}
	year := ""
	if m.ReleaseYear != nil {
		year = fmt.Sprintf(" (%d)", *m.ReleaseYear)
	}
	fmt.Printf("[%d] %s%s  %s  avg %s from %d reviews\n", m.ID, m.Title, year, m.Genre, avg, m.ReviewCount)
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("page-size", 0, "results per page (server default when 0)")
}

func setPageFlags(cmd *cobra.Command, q url.Values) {
	if page, _ := cmd.Flags().GetInt("page"); page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if size, _ := cmd.Flags().GetInt("page-size"); size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
}

func printPageFooter(count int64, next *string) {
	fmt.Printf("\n%d total", count)
	if next != nil {
		fmt.Print(", more with --page")
	}
	fmt.Println()
}

func init() {
	movieCmd.AddCommand(listMoviesCmd, getMovieCmd, createMovieCmd, deleteMovieCmd)

	listMoviesCmd.Flags().String("genre", "", "exact genre")
	listMoviesCmd.Flags().Int("year", 0, "release year")
	listMoviesCmd.Flags().String("search", "", "search title and genre")
	listMoviesCmd.Flags().String("ordering", "", "e.g. -average_rating, title, -review_count")
	addPageFlags(listMoviesCmd)

	createMovieCmd.Flags().String("genre", "", "genre")
	createMovieCmd.Flags().String("description", "", "description")
	createMovieCmd.Flags().Int("year", 0, "release year")
}

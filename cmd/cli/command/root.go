package command

// root.go defines the root command and the global flags.

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"moviereviews/cmd/cli/authentication"
	"moviereviews/cmd/cli/client"

	"github.com/spf13/cobra"
)

const tokenEnv = "MOVIEREVIEWS_TOKEN"

var (
	apiURL string // Global flag for API server URL
	token  string // explicit access token, overrides the keyring
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moviereviews",
	Short: "moviereviews - command line client for the movie reviews API",
	Long: `moviereviews talks to the movie reviews API. Use it to:
- Register, log in and inspect your account
- Browse movies with their average rating and review count
- Write, edit and delete your reviews
- Like or dislike other people's reviews

Use "moviereviews [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080/api", "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv(tokenEnv), "access token (default: the one stored by auth login)")

	rootCmd.AddCommand(authCmd, movieCmd, reviewCmd, reactionCmd)
}

// GetClient returns a client that sends the caller's token when one is
// available. Anonymous reads still work without it.
func GetClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	if token != "" {
		c.SetToken(token)
		return c
	}
	if creds, err := authentication.GetTokens(); err == nil {
		c.SetToken(creds.AccessToken)
	}
	return c
}

// GetAuthenticatedClient is GetClient for commands that cannot run anonymously.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	if token != "" {
		return GetClient(), nil
	}
	if _, err := authentication.GetTokens(); err != nil {
		return nil, err
	}
	return GetClient(), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 15*time.Second)
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID: %q", kind, raw)
	}
	return id, nil
}

const timeLayout = "2006-01-02 15:04:05"

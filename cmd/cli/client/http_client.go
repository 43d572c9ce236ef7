package client

// http_client.go talks to the movie reviews REST API on behalf of the CLI.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"moviereviews/internal/http-api/dto"
)

// HTTPClient wraps the API base URL (including /api) and an optional token.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer. Body holds the decoded JSON error document.
type APIError struct {
	StatusCode int
	Body       map[string]any
}

func (e *APIError) Error() string {
	if detail, ok := e.Body["detail"].(string); ok {
		return fmt.Sprintf("%d: %s", e.StatusCode, detail)
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	// field errors: {"rating": ["..."], "non_field_errors": ["..."]}
	keys := make([]string, 0, len(e.Body))
	for k := range e.Body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Body[k]))
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, strings.Join(parts, "; "))
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var result dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*dto.TokenPair, error) {
	var result dto.TokenPair
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refresh string) (*dto.AccessResponse, error) {
	var result dto.AccessResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, dto.RefreshRequest{Refresh: refresh}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refresh string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, dto.RefreshRequest{Refresh: refresh}, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*dto.MeResponse, error) {
	var result dto.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Movies

func (c *HTTPClient) ListMovies(ctx context.Context, query url.Values) (*dto.Page[dto.MovieResponse], error) {
	var result dto.Page[dto.MovieResponse]
	if err := c.do(ctx, http.MethodGet, "/movies", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetMovie(ctx context.Context, id int64) (*dto.MovieResponse, error) {
	var result dto.MovieResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/%d", id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateMovie(ctx context.Context, req dto.CreateMovieRequest) (*dto.MovieResponse, error) {
	var result dto.MovieResponse
	if err := c.do(ctx, http.MethodPost, "/movies", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteMovie(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/movies/%d", id), nil, nil, nil)
}

// Reviews

// ListReviews calls /reviews, or one of its listing variants when path is
// "by-movie" or "top-liked".
func (c *HTTPClient) ListReviews(ctx context.Context, variant string, query url.Values) (*dto.Page[dto.ReviewResponse], error) {
	path := "/reviews"
	if variant != "" {
		path += "/" + variant
	}
	var result dto.Page[dto.ReviewResponse]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetReview(ctx context.Context, id int64) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d", id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateReview(ctx context.Context, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(ctx, http.MethodPost, "/reviews", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateReview(ctx context.Context, id int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/reviews/%d", id), nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, nil, nil)
}

// Reactions

// React posts "like" or "dislike" for a review.
func (c *HTTPClient) React(ctx context.Context, reviewID int64, action string) (*dto.ReactionResponse, error) {
	var result dto.ReactionResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/reviews/%d/%s", reviewID, action), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Reactions(ctx context.Context, reviewID int64) (*dto.ReactionsSummary, error) {
	var result dto.ReactionsSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d/reactions", reviewID), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

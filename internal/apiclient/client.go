package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marcus/tale/internal/models"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Client is an HTTP client for the tale content server.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a new content API client.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Auth types (mirrors internal/api, independently defined) ---

// LoginResponse is the response from POST /v1/auth/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// --- Engagement types ---

// LikeResult is the response from a story like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ReadingListResult is the response from a reading-list toggle.
type ReadingListResult struct {
	Added bool          `json:"added"`
	Story *models.Story `json:"story,omitempty"`
}

// CommentLikeResult is the response from a comment like toggle.
type CommentLikeResult struct {
	Liked bool `json:"liked"`
}

// CommentsPage is one page of a story's comment thread.
type CommentsPage struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

// StoriesPage is one page of a story listing.
type StoriesPage struct {
	Stories    []models.Story    `json:"stories"`
	Pagination models.Pagination `json:"pagination"`
}

// HealthResponse is the response from GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthCheck hits the /healthz endpoint to verify server reachability.
func (c *Client) HealthCheck() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doNoAuth("GET", "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token. No token required.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.doNoAuth("POST", "/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Story methods ---

// FetchStory fetches a single story with viewer engagement data.
func (c *Client) FetchStory(storyID string) (*models.Story, error) {
	var story models.Story
	if err := c.do("GET", "/v1/stories/"+url.PathEscape(storyID), nil, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// CreateStory publishes a new story authored by the viewer.
func (c *Client) CreateStory(title, summary, content string) (*models.Story, error) {
	body := map[string]string{"title": title, "summary": summary, "content": content}
	var story models.Story
	if err := c.do("POST", "/v1/stories", body, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// ListStories fetches one page of the story feed.
func (c *Client) ListStories(page int) (*StoriesPage, error) {
	var resp StoriesPage
	if err := c.do("GET", "/v1/stories?page="+strconv.Itoa(page), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleLike toggles the viewer's like on a story.
func (c *Client) ToggleLike(storyID string) (*LikeResult, error) {
	var resp LikeResult
	if err := c.do("POST", fmt.Sprintf("/v1/stories/%s/like", url.PathEscape(storyID)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleReadingList toggles the story's membership in the viewer's list.
func (c *Client) ToggleReadingList(storyID string) (*ReadingListResult, error) {
	var resp ReadingListResult
	if err := c.do("POST", fmt.Sprintf("/v1/stories/%s/reading-list", url.PathEscape(storyID)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IncrementView reports one view of a story. Best effort: the server answers
// with a bare ack and callers are expected to swallow failures.
func (c *Client) IncrementView(storyID string) error {
	return c.do("POST", fmt.Sprintf("/v1/stories/%s/view", url.PathEscape(storyID)), nil, nil)
}

// ReadingList fetches the viewer's saved stories.
func (c *Client) ReadingList() ([]models.Story, error) {
	var resp []models.Story
	if err := c.do("GET", "/v1/reading-list", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// --- Comment methods ---

// ListComments fetches one page of a story's comment thread. Top-level
// comments arrive newest-first with replies nested oldest-first.
func (c *Client) ListComments(storyID string, page int) (*CommentsPage, error) {
	var resp CommentsPage
	path := fmt.Sprintf("/v1/stories/%s/comments?page=%d", url.PathEscape(storyID), page)
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateComment posts a comment; parentID is empty for a top-level comment.
func (c *Client) CreateComment(storyID, content, parentID string) (*models.Comment, error) {
	body := map[string]string{"content": content}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	var resp models.Comment
	path := fmt.Sprintf("/v1/stories/%s/comments", url.PathEscape(storyID))
	if err := c.do("POST", path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateComment edits the viewer's own comment.
func (c *Client) UpdateComment(commentID, content string) (*models.Comment, error) {
	body := map[string]string{"content": content}
	var resp models.Comment
	if err := c.do("PATCH", "/v1/comments/"+url.PathEscape(commentID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteComment deletes the viewer's own comment (replies cascade).
func (c *Client) DeleteComment(commentID string) error {
	return c.do("DELETE", "/v1/comments/"+url.PathEscape(commentID), nil, nil)
}

// ToggleCommentLike toggles the viewer's like on a comment.
func (c *Client) ToggleCommentLike(commentID string) (*CommentLikeResult, error) {
	var resp CommentLikeResult
	if err := c.do("POST", fmt.Sprintf("/v1/comments/%s/like", url.PathEscape(commentID)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- HTTP helpers ---

// apiError is the standard error body from the server.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// errorEnvelope matches the server's {"error": {...}} wrapper.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

// do executes an authenticated HTTP request.
func (c *Client) do(method, path string, body, result any) error {
	return c.doRequest(method, path, body, result, true)
}

// doNoAuth executes an unauthenticated HTTP request.
func (c *Client) doNoAuth(method, path string, body, result any) error {
	return c.doRequest(method, path, body, result, false)
}

func (c *Client) doRequest(method, path string, body, result any, auth bool) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		if json.Unmarshal(respBody, &env) == nil && env.Error.Code != "" {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return fmt.Errorf("%w: %s", ErrUnauthorized, env.Error.Message)
			case http.StatusForbidden:
				return fmt.Errorf("%w: %s", ErrForbidden, env.Error.Message)
			case http.StatusNotFound:
				return fmt.Errorf("%w: %s", ErrNotFound, env.Error.Message)
			default:
				return &env.Error
			}
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

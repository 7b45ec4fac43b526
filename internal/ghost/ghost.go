package ghost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-shopper/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotFound = errors.New("post not found")

// Post represents a single recipe post from the Ghost API.
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
	URL          string `json:"url"`
	FeatureImage string `json:"feature_image"`
	UpdatedAt    string `json:"updated_at"`
}

// PostsResponse is the top-level structure of the Ghost API response for posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

// Client is an interface for a Ghost API client (Content & Admin).
type Client interface {
	FetchRecipes(ctx context.Context) ([]Post, error)
	SearchRecipes(ctx context.Context, query string) ([]Post, error)
	GetRecipe(ctx context.Context, id string) (*Post, error)
	CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error)
}

// ghostClient is the concrete implementation of the Ghost API client.
type ghostClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new Ghost API client.
func NewClient(cfg *config.Config) Client {
	return &ghostClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     cfg,
	}
}

// FetchRecipes fetches all posts (recipes) from the Ghost Content API.
func (c *ghostClient) FetchRecipes(ctx context.Context) ([]Post, error) {
	return c.listPosts(ctx, url.Values{"limit": {"all"}})
}

// SearchRecipes returns the posts whose title contains query.
func (c *ghostClient) SearchRecipes(ctx context.Context, query string) ([]Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	// NQL string literals are single-quoted; a quote inside the query would end the literal.
	filter := fmt.Sprintf("title:~'%s'", strings.ReplaceAll(query, "'", `\'`))
	return c.listPosts(ctx, url.Values{"filter": {filter}, "limit": {"all"}, "fields": {"id,title,url,feature_image,updated_at"}})
}

// GetRecipe fetches a single post by ID. It returns ErrNotFound for unknown IDs.
func (c *ghostClient) GetRecipe(ctx context.Context, id string) (*Post, error) {
	posts, err := c.getPosts(ctx, "posts/"+url.PathEscape(id)+"/", url.Values{})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &posts[0], nil
}

func (c *ghostClient) listPosts(ctx context.Context, params url.Values) ([]Post, error) {
	return c.getPosts(ctx, "posts/", params)
}

func (c *ghostClient) getPosts(ctx context.Context, path string, params url.Values) ([]Post, error) {
	params.Set("key", c.config.GhostContentKey)
	endpoint := fmt.Sprintf("%s/ghost/api/v3/content/%s?%s", c.config.GhostURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api error: status %d", resp.StatusCode)
	}

	var postsResponse PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&postsResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return postsResponse.Posts, nil
}

// CreatePost creates a new post using the Ghost Admin API.
func (c *ghostClient) CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error) {
	token, err := c.createAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	status := "draft"
	if publish {
		status = "published"
	}

	newPost := map[string]interface{}{
		"posts": []map[string]interface{}{
			{
				"title":  title,
				"html":   html,
				"status": status,
			},
		},
	}

	body, err := json.Marshal(newPost)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}
	endpoint := fmt.Sprintf("%s/ghost/api/v3/admin/posts/?source=html", c.config.GhostURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("admin api error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var response PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}

	return &response.Posts[0], nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *ghostClient) createAdminToken() (string, error) {
	keyParts := strings.Split(c.config.GhostAdminKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/v3/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}

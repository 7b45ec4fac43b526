// Package clipper imports recipes from arbitrary web pages.
package clipper

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/recipe"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// noise is removed from a page before looking for the recipe.
const noise = "script, style, nav, footer, iframe, ads, .ads, #ads"

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	ghostClient ghost.Client
	extractor   *recipe.Extractor
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClipper creates a new Clipper instance. ghostClient may be nil when
// clipped recipes are never published.
func NewClipper(ghostClient ghost.Client, extractor *recipe.Extractor, logger *zap.Logger) *Clipper {
	if extractor == nil {
		extractor = recipe.NewExtractor(nil)
	}
	return &Clipper{
		ghostClient: ghostClient,
		extractor:   extractor,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// Clip fetches the page at rawURL and extracts the recipe on it.
func (c *Clipper) Clip(ctx context.Context, rawURL string) (*recipe.Recipe, error) {
	doc, err := c.fetchAndClean(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	rec, err := c.extractor.FromDocument(doc, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe from %s: %w", rawURL, err)
	}
	rec.SourceURL = rawURL
	if rec.Publisher == "" {
		if u, err := url.Parse(rawURL); err == nil {
			rec.Publisher = u.Hostname()
		}
	}
	if rec.Title == "" {
		rec.Title = rec.Publisher
	}

	c.logger.Info("Clipped recipe",
		zap.String("url", rawURL),
		zap.String("title", rec.Title),
		zap.Int("ingredients", len(rec.Ingredients)))
	return rec, nil
}

// Publish saves rec as a published Ghost post.
func (c *Clipper) Publish(ctx context.Context, rec *recipe.Recipe, sourceURL string) (*ghost.Post, error) {
	if c.ghostClient == nil {
		return nil, fmt.Errorf("no ghost client configured")
	}
	post, err := c.ghostClient.CreatePost(ctx, rec.Title, formatToHTML(rec, sourceURL), true)
	if err != nil {
		return nil, fmt.Errorf("failed to save to ghost: %w", err)
	}
	return post, nil
}

// ClipURL clips a page and publishes the recipe to Ghost.
func (c *Clipper) ClipURL(ctx context.Context, rawURL string) (*recipe.Recipe, *ghost.Post, error) {
	rec, err := c.Clip(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	post, err := c.Publish(ctx, rec, rawURL)
	if err != nil {
		return rec, nil, err
	}
	return rec, post, nil
}

func (c *Clipper) fetchAndClean(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "recipe-shopper/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	doc.Find(noise).Remove()
	return doc, nil
}

func formatToHTML(rec *recipe.Recipe, sourceURL string) string {
	var sb strings.Builder
	if sourceURL != "" {
		u := html.EscapeString(sourceURL)
		sb.WriteString(fmt.Sprintf("<p><i>Imported from: <a href=\"%s\">%s</a></i></p>", u, u))
	}

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, line := range rec.Lines() {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(line)))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<hr>")
	sb.WriteString(fmt.Sprintf("<p><strong>Cooking Time:</strong> %d min | <strong>Servings:</strong> %d</p>",
		int(rec.CookingTime.Minutes()), rec.Servings))

	return sb.String()
}

package recipe

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/ingredient"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoIngredients = errors.New("no ingredient list found")

var (
	servingsRe = regexp.MustCompile(`(?i)(?:servings?|serves|yield|makes)\s*:?\s*(\d+)`)
	firstIntRe = regexp.MustCompile(`\d+`)
)

// Extractor builds recipes from HTML pages.
type Extractor struct {
	parser *ingredient.Parser
}

// NewExtractor creates an Extractor. A nil parser uses the default unit table.
func NewExtractor(parser *ingredient.Parser) *Extractor {
	if parser == nil {
		parser = ingredient.NewParser(nil)
	}
	return &Extractor{parser: parser}
}

// FromHTML reads a page and extracts the recipe it contains.
func (e *Extractor) FromHTML(r io.Reader, id string) (*Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return e.FromDocument(doc, id)
}

// FromPost extracts a recipe from a Ghost post body. The post title wins
// over any heading found in the HTML.
func (e *Extractor) FromPost(post ghost.Post) (*Recipe, error) {
	rec, err := e.FromHTML(strings.NewReader(post.HTML), post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe from post %s: %w", post.ID, err)
	}
	if post.Title != "" {
		rec.Title = post.Title
	}
	if post.FeatureImage != "" {
		rec.ImageURL = post.FeatureImage
	}
	rec.SourceURL = post.URL
	rec.UpdatedAt = post.UpdatedAt
	return rec, nil
}

// FromDocument extracts title, servings and ingredient lines from doc.
func (e *Extractor) FromDocument(doc *goquery.Document, id string) (*Recipe, error) {
	lines := ingredientLines(doc)
	if len(lines) == 0 {
		return nil, ErrNoIngredients
	}

	ings := e.parser.ParseAll(lines)
	return &Recipe{
		ID:          id,
		Title:       title(doc),
		Publisher:   metaContent(doc, "og:site_name"),
		ImageURL:    metaContent(doc, "og:image"),
		Servings:    servings(doc),
		CookingTime: EstimateCookingTime(len(ings)),
		Ingredients: ings,
	}, nil
}

func ingredientLines(doc *goquery.Document) []string {
	if lines := texts(doc.Find(`[itemprop="recipeIngredient"]`)); len(lines) > 0 {
		return lines
	}
	if lines := texts(doc.Find(".ingredients li, .recipe-ingredients li, .wprm-recipe-ingredient")); len(lines) > 0 {
		return lines
	}

	var lines []string
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "ingredient") {
			return true
		}
		lines = texts(h.NextAllFiltered("ul, ol").First().Find("li"))
		return len(lines) == 0
	})
	return lines
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func title(doc *goquery.Document) string {
	for _, sel := range []string{`[itemprop="name"]`, "h1", "title"} {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return metaContent(doc, "og:title")
}

func metaContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
	return strings.TrimSpace(v)
}

func servings(doc *goquery.Document) int {
	if y := doc.Find(`[itemprop="recipeYield"]`).First(); y.Length() > 0 {
		text := y.Text()
		if c, ok := y.Attr("content"); ok {
			text = c
		}
		if n := atoi(firstIntRe.FindString(text)); n > 0 {
			return n
		}
	}
	if m := servingsRe.FindStringSubmatch(doc.Text()); m != nil {
		if n := atoi(m[1]); n > 0 {
			return n
		}
	}
	return DefaultServings
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

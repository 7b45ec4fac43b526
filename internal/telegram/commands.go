package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/likes"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
)

// Service is the part of app.App the bot talks to.
type Service interface {
	Search(ctx context.Context, query string) ([]app.Summary, error)
	AddRecipeToList(ctx context.Context, owner, id string, servings int) ([]shopping.Item, error)
	AddLine(ctx context.Context, owner, line string) (shopping.Item, error)
	List(ctx context.Context, owner string) ([]shopping.Item, error)
	UpdateItem(ctx context.Context, owner, id string, count float64) error
	DeleteItem(ctx context.Context, owner, id string) error
	ClearList(ctx context.Context, owner string) error
	Parse(line string) ingredient.Ingredient
	ToggleLike(ctx context.Context, id string) (bool, error)
	Likes() []likes.Like
	ClipURL(ctx context.Context, rawURL string, publish bool) (*recipe.Recipe, error)
}

const helpText = `🛒 *Recipe Shopper*

/search <words> - find recipes
/add <recipe id> [servings] - add a recipe to your list
/list - show your shopping list
/update <n> <count> - change the count of item n
/delete <n> - remove item n
/clear - empty the list
/parse <line> - show how a line is understood
/like <recipe id> - like or unlike a recipe
/likes - show liked recipes

Send a recipe URL to clip it. Any other text is added to your list, one item per line.`

// commandName returns the command in text without the leading slash and any
// @botname suffix, and the remaining arguments.
func commandName(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	name, args, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func isURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// handleText runs the command in text for owner and returns the Markdown reply.
func (b *Bot) handleText(ctx context.Context, owner, text string) (string, error) {
	cmd, args := commandName(text)
	switch cmd {
	case "":
		if isURL(args) {
			return b.clip(ctx, args)
		}
		return b.addLines(ctx, owner, args)
	case "start", "help":
		return helpText, nil
	case "search":
		return b.search(ctx, args)
	case "add":
		return b.addRecipe(ctx, owner, args)
	case "list":
		return b.showList(ctx, owner)
	case "update":
		return b.updateItem(ctx, owner, args)
	case "delete":
		return b.deleteItem(ctx, owner, args)
	case "clear":
		if err := b.service.ClearList(ctx, owner); err != nil {
			return "", err
		}
		return "🧹 Shopping list cleared.", nil
	case "parse":
		return formatParsed(b.service.Parse(args)), nil
	case "like":
		return b.toggleLike(ctx, args)
	case "likes":
		return formatLikes(b.service.Likes()), nil
	default:
		return fmt.Sprintf("Unknown command /%s. Send /help for the list of commands.", escapeMarkdown(cmd)), nil
	}
}

func (b *Bot) search(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "Usage: /search <words>", nil
	}
	results, err := b.service.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return formatSearchResults(query, results), nil
}

func (b *Bot) addRecipe(ctx context.Context, owner, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return "Usage: /add <recipe id> [servings]", nil
	}
	servings := 0
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return "Servings must be a positive whole number.", nil
		}
		servings = n
	}
	added, err := b.service.AddRecipeToList(ctx, owner, fields[0], servings)
	if err != nil {
		return "", err
	}
	items, err := b.service.List(ctx, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Added %d ingredients.\n\n%s", len(added), formatShoppingList(items)), nil
}

func (b *Bot) addLines(ctx context.Context, owner, text string) (string, error) {
	var added []shopping.Item
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := b.service.AddLine(ctx, owner, line)
		if err != nil {
			return "", err
		}
		added = append(added, item)
	}
	if len(added) == 0 {
		return helpText, nil
	}

	var sb strings.Builder
	sb.WriteString("➕ *Added*\n")
	for _, it := range added {
		sb.WriteString(fmt.Sprintf("• %s\n", escapeMarkdown(it.String())))
	}
	return sb.String(), nil
}

func (b *Bot) showList(ctx context.Context, owner string) (string, error) {
	items, err := b.service.List(ctx, owner)
	if err != nil {
		return "", err
	}
	return formatShoppingList(items), nil
}

func (b *Bot) updateItem(ctx context.Context, owner, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "Usage: /update <n> <count>", nil
	}
	count, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "The count must be a number.", nil
	}
	item, reply, err := b.itemAt(ctx, owner, fields[0])
	if err != nil || reply != "" {
		return reply, err
	}
	if err := b.service.UpdateItem(ctx, owner, item.ID, count); err != nil {
		if errors.Is(err, shopping.ErrInvalidCount) {
			return "The count must not be negative.", nil
		}
		return "", err
	}
	return b.showList(ctx, owner)
}

func (b *Bot) deleteItem(ctx context.Context, owner, args string) (string, error) {
	item, reply, err := b.itemAt(ctx, owner, args)
	if err != nil || reply != "" {
		return reply, err
	}
	if err := b.service.DeleteItem(ctx, owner, item.ID); err != nil {
		return "", err
	}
	return b.showList(ctx, owner)
}

// itemAt resolves the 1-based position shown by /list. A non-empty reply
// explains why the position is not usable.
func (b *Bot) itemAt(ctx context.Context, owner, pos string) (shopping.Item, string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(pos))
	if err != nil {
		return shopping.Item{}, "Use the item number shown by /list.", nil
	}
	items, err := b.service.List(ctx, owner)
	if err != nil {
		return shopping.Item{}, "", err
	}
	if n < 1 || n > len(items) {
		return shopping.Item{}, fmt.Sprintf("There is no item %d on your list.", n), nil
	}
	return items[n-1], "", nil
}

func (b *Bot) toggleLike(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "Usage: /like <recipe id>", nil
	}
	liked, err := b.service.ToggleLike(ctx, id)
	if err != nil {
		return "", err
	}
	if liked {
		return "❤️ Recipe liked.", nil
	}
	return "💔 Recipe unliked.", nil
}

func (b *Bot) clip(ctx context.Context, rawURL string) (string, error) {
	rec, err := b.service.ClipURL(ctx, rawURL, b.publishClips)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*ID:* `%s`\n\n%s",
		escapeMarkdown(rec.Title), rec.ID, formatRecipe(rec)), nil
}

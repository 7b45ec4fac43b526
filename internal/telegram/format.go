package telegram

import (
	"fmt"
	"strings"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/likes"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown protects user text in legacy Markdown messages.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func formatShoppingList(items []shopping.Item) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	if len(items) == 0 {
		sb.WriteString("_Your list is empty_\n")
		return sb.String()
	}
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapeMarkdown(it.String())))
	}
	return sb.String()
}

func formatSearchResults(query string, results []app.Summary) string {
	if len(results) == 0 {
		return fmt.Sprintf("No recipes found for \"%s\".", escapeMarkdown(query))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔎 *Recipes for \"%s\"*\n\n", escapeMarkdown(query)))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("• %s\n  `/add %s`\n", escapeMarkdown(r.Title), r.ID))
	}
	return sb.String()
}

func formatRecipe(rec *recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏱ %d min | 🍽 %d servings\n\n", int(rec.CookingTime.Minutes()), rec.Servings))
	for _, line := range rec.Lines() {
		sb.WriteString(fmt.Sprintf("• %s\n", escapeMarkdown(line)))
	}
	return sb.String()
}

func formatParsed(ing ingredient.Ingredient) string {
	count := "none"
	if ing.Count != nil {
		count = ingredient.FormatCount(*ing.Count)
	}
	unit := ing.Unit
	if unit == "" {
		unit = "none"
	}
	return fmt.Sprintf("*Count:* %s\n*Unit:* %s\n*Name:* %s", count, escapeMarkdown(unit), escapeMarkdown(ing.Name))
}

func formatLikes(ls []likes.Like) string {
	var sb strings.Builder
	sb.WriteString("❤️ *Liked Recipes*\n\n")
	if len(ls) == 0 {
		sb.WriteString("_No likes yet_\n")
		return sb.String()
	}
	for _, l := range ls {
		sb.WriteString(fmt.Sprintf("• %s", escapeMarkdown(l.Title)))
		if l.Publisher != "" {
			sb.WriteString(fmt.Sprintf(" _(%s)_", escapeMarkdown(l.Publisher)))
		}
		sb.WriteString(fmt.Sprintf("\n  `/add %s`\n", l.ID))
	}
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d commands (%d failed, avg %dms)\n", d.Date, d.Executions, d.Failures, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• Memory: %s\n", health.Memory()))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d, GC runs: %d\n", health.Goroutines, health.NumGC))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Data: %s\n", health.DataSize()))
	return sb.String()
}

// formatError renders err for the chat.
func formatError(err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *Error:*\n```\n%v\n```", safeErr)
}

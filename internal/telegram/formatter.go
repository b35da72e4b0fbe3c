package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

func FormatSearchResult(res *domain.SearchResult) string {
	var sb strings.Builder

	sum := res.Summary
	fmt.Fprintf(&sb, "<b>Поиск:</b> %s (до ¥%.2f)\n", html.EscapeString(sum.Query), sum.MaxPrice)
	fmt.Fprintf(&sb, "Найдено: %d, после фильтра: %d\n", sum.TotalFound, sum.AfterFiltering)

	if len(sum.Successful) > 0 {
		fmt.Fprintf(&sb, "Площадки: %s\n", strings.Join(sum.Successful, ", "))
	}
	if len(sum.Failed) > 0 {
		var parts []string
		for _, f := range sum.Failed {
			parts = append(parts, fmt.Sprintf("%s (%s)", f.Platform, f.Reason))
		}
		fmt.Fprintf(&sb, "Не ответили: %s\n", strings.Join(parts, ", "))
	}

	if len(res.BestDeals) == 0 {
		sb.WriteString("\nНичего подходящего не нашлось. Попробуйте поднять бюджет или проверить модель.")
		return sb.String()
	}

	if res.Analysis.Global != nil {
		g := res.Analysis.Global
		fmt.Fprintf(&sb, "\n<b>Цены:</b> от ¥%.2f до ¥%.2f, медиана ¥%.2f, средняя ¥%.2f\n",
			g.Min, g.Max, g.Median, g.Average)
	}

	sb.WriteString("\n<b>Лучшие предложения:</b>\n")
	for i, p := range res.BestDeals {
		fmt.Fprintf(&sb, "%d. ¥%.2f - %s [%s]", i+1, p.Price, html.EscapeString(p.Title), p.Platform)
		if p.Shop != "" {
			fmt.Fprintf(&sb, " - %s", html.EscapeString(p.Shop))
		}
		sb.WriteByte('\n')
		if p.URL != "" {
			fmt.Fprintf(&sb, "   <a href=\"%s\">%s</a>\n", html.EscapeString(p.URL), html.EscapeString(truncateURL(p.URL, 50)))
		}
	}

	fmt.Fprintf(&sb, "\nВремя поиска: %.1f c", res.Elapsed.Seconds())
	return sb.String()
}

func FormatHistory(records []domain.SearchRecord) string {
	if len(records) == 0 {
		return "История пуста. Запустите первый поиск: /find бренд модель цена"
	}

	var sb strings.Builder
	sb.WriteString("<b>Последние поиски:</b>\n\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. %s %s (до ¥%.2f) - найдено %d",
			i+1, html.EscapeString(r.Brand), html.EscapeString(r.Model), r.MaxPrice, r.AfterFiltering)
		if r.BestPrice != nil {
			fmt.Fprintf(&sb, ", лучшая цена ¥%.2f", *r.BestPrice)
		}
		fmt.Fprintf(&sb, "\n   %s\n", r.CreatedAt.Format("02.01.2006 15:04"))
	}
	return sb.String()
}

// SplitMessage режет длинный ответ под лимит телеграма, не ломая HTML-теги.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки вне HTML-тега
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}
		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}
	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	open := strings.LastIndexByte(text[:pos], '<')
	if open == -1 {
		return false
	}
	close := strings.LastIndexByte(text[:pos], '>')
	return close < open
}

func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

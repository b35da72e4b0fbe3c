package domain

import (
	"strconv"
	"strings"
)

// Product - одно предложение с одной площадки.
// Цена уже нормализована в юани на этапе извлечения.
type Product struct {
	Title      string
	Price      float64
	Brand      string
	Model      string
	Platform   string
	Shop       string
	URL        string
	Confidence float64 // 0 если экстрактор не дал оценку
}

// IdentityKey - ключ дедупликации. Если есть URL, то (платформа, URL),
// иначе (платформа, нормализованный заголовок, цена). Название магазина
// в ключ не входит: одинаковые листинги из разных магазинов схлопываются.
func (p Product) IdentityKey() string {
	if u := strings.TrimSpace(p.URL); u != "" {
		return p.Platform + "|u|" + u
	}
	title := strings.ToLower(normalizeSpaces(p.Title))
	return p.Platform + "|t|" + title + "|" + strconv.FormatFloat(p.Price, 'f', 2, 64)
}

package telegram

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrTooFewArgs  = errors.New("find command needs brand, model and max price")
	ErrBadPrice    = errors.New("max price must be a positive number")
)

// ParseFindArgs разбирает аргументы /find: "<бренд> <модель...> <цена>".
// Бренд - первое слово, цена - последнее, модель - всё между ними
// (моделей из нескольких слов полно: "iPhone 15 Pro").
func ParseFindArgs(args string) (brand, model string, maxPrice float64, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", "", 0, ErrTooFewArgs
	}

	priceStr := strings.TrimPrefix(fields[len(fields)-1], "¥")
	maxPrice, perr := strconv.ParseFloat(priceStr, 64)
	if perr != nil || maxPrice <= 0 {
		return "", "", 0, ErrBadPrice
	}

	brand = fields[0]
	model = strings.Join(fields[1:len(fields)-1], " ")
	return brand, model, maxPrice, nil
}

package browser

import (
	"context"
	"errors"
)

var (
	ErrNavigation = errors.New("navigation failed")
	ErrEmptyPage  = errors.New("page content is empty")
)

// Fetcher отдаёт отрендеренный HTML страницы. Реализация обязана
// освобождать свой слот пула на любом пути выхода.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

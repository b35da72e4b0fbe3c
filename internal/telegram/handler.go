package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

const maxMessageLen = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}

	h.bot.logger.Info("received message",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if !msg.IsCommand() {
		h.bot.Send(msg.Chat.ID, "Я понимаю только команды. /help покажет, что я умею.")
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "find":
		h.handleFind(ctx, msg, h.bot.defaultMode)
	case "findseq":
		// последовательный режим: щадит пул браузера, но медленнее
		h.handleFind(ctx, msg, domain.ModeSequential)
	case "history":
		h.handleHistory(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.bot.sessionService.GetOrCreate(ctx, msg.Chat.ID); err != nil {
		h.bot.logger.Error("failed to create session", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.bot.Send(msg.Chat.ID, "Привет! Я ищу товары на JD, Taobao и Pinduoduo и показываю, где дешевле.\n\nПример: /find Apple iPhone 15 6000\n\n/help - все команды.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Команды:</b>

/find бренд модель цена - поиск по всем площадкам сразу
/findseq бренд модель цена - то же, но площадки по очереди
/history - последние поиски
/help - эта справка

<b>Формат запроса:</b>
Бренд - одно слово, цена - последнее число (юани), всё между ними - модель.

<b>Примеры:</b>
/find Apple iPhone 15 6000
/find Xiaomi 14 Ultra 4500
/findseq Sony WH-1000XM5 2000`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleFind(ctx context.Context, msg *tgbotapi.Message, mode domain.ExecutionMode) {
	chatID := msg.Chat.ID

	if !h.bot.rateLimiter.Allow(chatID) {
		h.bot.RecordRateLimitHit(chatID)
		reset := h.bot.rateLimiter.ResetTime(chatID)
		wait := time.Until(reset).Round(time.Second)
		h.bot.Send(chatID, fmt.Sprintf("Слишком много запросов. Подождите примерно %s.", wait))
		return
	}

	brand, model, maxPrice, err := ParseFindArgs(msg.CommandArguments())
	if err != nil {
		switch {
		case errors.Is(err, ErrTooFewArgs):
			h.bot.Send(chatID, "Нужно три части: /find бренд модель цена\nНапример: /find Apple iPhone 15 6000")
		case errors.Is(err, ErrBadPrice):
			h.bot.Send(chatID, "Не понял цену. Последним должно быть положительное число: /find Apple iPhone 15 6000")
		default:
			h.bot.Send(chatID, "Не смог разобрать запрос. /help покажет формат.")
		}
		return
	}

	req := &domain.SearchRequest{
		Criteria: domain.Criteria{
			Brand:    brand,
			Model:    model,
			MaxPrice: maxPrice,
		},
		Platforms:      h.bot.platforms,
		MaxPerPlatform: h.bot.maxPerPlatform,
		Mode:           mode,
	}

	h.bot.Send(chatID, fmt.Sprintf("Ищу %s %s до ¥%.2f. Это займёт минуту-другую...", brand, model, maxPrice))
	h.bot.SendTyping(chatID)

	result, err := h.bot.searchService.Search(ctx, chatID, req)
	if err != nil {
		h.bot.logger.Error("search failed", zap.Error(err), zap.Int64("chat_id", chatID))
		if errors.Is(err, domain.ErrUnknownPlatform) {
			h.bot.Send(chatID, "В конфигурации указана неизвестная площадка. Сообщите администратору.")
			return
		}
		h.bot.Send(chatID, "Поиск не удался из-за внутренней ошибки. Попробуйте позже.")
		return
	}

	for _, part := range SplitMessage(FormatSearchResult(result), maxMessageLen) {
		h.bot.Send(chatID, part)
	}
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	records, err := h.bot.sessionService.History(ctx, msg.Chat.ID, 5)
	if err != nil {
		h.bot.logger.Error("failed to load history", zap.Error(err))
		h.bot.Send(msg.Chat.ID, "Не удалось загрузить историю. Попробуйте позже.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatHistory(records))
}

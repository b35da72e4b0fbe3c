package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/metrics"
	"github.com/kitbuilder587/pricehunt-bot/internal/ratelimit"
	"github.com/kitbuilder587/pricehunt-bot/internal/service"
)

type BotConfig struct {
	Token             string
	Debug             bool
	SearchesPerMinute int

	// дефолты поиска, которыми заполняется запрос из /find
	Platforms      []string
	MaxPerPlatform int
	DefaultMode    domain.ExecutionMode
}

type Bot struct {
	api            *tgbotapi.BotAPI
	searchService  service.SearchService
	sessionService service.SessionService
	logger         *zap.Logger
	metrics        *metrics.Metrics
	handler        *Handler
	rateLimiter    *ratelimit.Limiter
	wg             sync.WaitGroup

	platforms      []string
	maxPerPlatform int
	defaultMode    domain.ExecutionMode
}

func New(cfg BotConfig, searchSvc service.SearchService, sessionSvc service.SessionService, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	rateLimiter := ratelimit.New(ratelimit.Config{
		SearchesPerWindow: cfg.SearchesPerMinute,
	})

	mode := cfg.DefaultMode
	if !mode.IsValid() {
		mode = domain.ModeConcurrent
	}

	bot := &Bot{
		api:            api,
		searchService:  searchSvc,
		sessionService: sessionSvc,
		logger:         logger,
		metrics:        m,
		rateLimiter:    rateLimiter,
		platforms:      cfg.Platforms,
		maxPerPlatform: cfg.MaxPerPlatform,
		defaultMode:    mode,
	}

	bot.handler = NewHandler(bot)

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.api == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendTyping(chatID int64) {
	if b.api == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(action)
}

func (b *Bot) RecordRateLimitHit(chatID int64) {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit(strconv.FormatInt(chatID, 10))
	}
}

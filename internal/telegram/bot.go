// Package telegram exposes the shopping list through a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"recipe-shopper/internal/config"
	"recipe-shopper/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// likesLock serialises access to the shared likes book.
const likesLock = "likes"

// Bot wraps the Telegram API and the application service.
type Bot struct {
	api          *tgbotapi.BotAPI
	service      Service
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *zap.Logger
	locks        *ownerLocks
	publishClips bool
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, service Service, metricsStore *metrics.Store, logger *zap.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("Authorized on account", zap.String("username", bot.Self.UserName))

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("Webhook set", zap.String("description", resp.Description))

	b := newBot(cfg, service, metricsStore, logger)
	b.api = bot
	return b, nil
}

func newBot(cfg *config.Config, service Service, metricsStore *metrics.Store, logger *zap.Logger) *Bot {
	return &Bot{
		service:      service,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
		locks:        newOwnerLocks(),
		publishClips: cfg.GhostURL != "" && cfg.GhostAdminKey != "",
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("Error parsing update", zap.Error(err))
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		b.logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func ownerFor(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	text := msg.Text
	if cmd, _ := commandName(text); cmd == "metrics" {
		b.send(msg.Chat.ID, b.metricsReport(ctx, msg.From.ID))
		return
	}

	reply, err := b.handle(ctx, ownerFor(msg.Chat.ID), text)
	if err != nil {
		b.logger.Error("Command failed", zap.String("text", text), zap.Error(err))
		reply = formatError(err)
	}
	b.send(msg.Chat.ID, reply)
}

// handle runs one message under the owner's lock and records it.
func (b *Bot) handle(ctx context.Context, owner, text string) (string, error) {
	cmd, _ := commandName(text)
	key := owner
	if cmd == "like" || cmd == "likes" {
		key = likesLock
	}
	unlock := b.locks.lock(key)
	defer unlock()

	if cmd == "" {
		cmd = "text"
		if isURL(strings.TrimSpace(text)) {
			cmd = "clip"
		}
	}

	var reply string
	run := func() error {
		var err error
		reply, err = b.handleText(ctx, owner, text)
		return err
	}
	if b.metricsStore == nil {
		return reply, run()
	}
	err := b.metricsStore.Track(ctx, cmd, owner, run)
	return reply, err
}

func (b *Bot) metricsReport(ctx context.Context, userID int64) string {
	if userID != b.cfg.AdminTelegramID || b.metricsStore == nil {
		return "⛔ *Access Denied*: Admin only."
	}
	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("Failed to fetch metrics", zap.Error(err))
		return "❌ Error fetching metrics."
	}
	return formatMetrics(usage, metrics.GetSysHealth(b.cfg.DataDir))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// ownerLocks hands out one mutex per list owner so concurrent updates for the
// same owner do not overwrite each other's load/save cycle.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

func (o *ownerLocks) lock(owner string) func() {
	o.mu.Lock()
	m, ok := o.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		o.locks[owner] = m
	}
	o.mu.Unlock()

	m.Lock()
	return m.Unlock
}

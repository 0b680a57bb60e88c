// Package bot serves the planner over Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplanner/internal/apperr"
	"taskplanner/internal/model"
	"taskplanner/internal/service"
	"taskplanner/internal/view"
)

// sender is the part of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api        *tgbotapi.BotAPI
	out        sender
	auth       *service.AuthService
	categories *service.CategoryService
	tasks      *service.TaskService
	reminders  *service.ReminderService
	loc        *time.Location
	now        func() time.Time

	mu            sync.Mutex
	conversations map[int64]*conversationState
	confirmations map[int64]uint
	views         map[int64]view.State
}

func New(token string, auth *service.AuthService, categories *service.CategoryService, tasks *service.TaskService, reminders *service.ReminderService, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, auth, categories, tasks, reminders, loc)
	b.api = api
	return b, nil
}

func newBot(out sender, auth *service.AuthService, categories *service.CategoryService, tasks *service.TaskService, reminders *service.ReminderService, loc *time.Location) *Bot {
	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		out:           out,
		auth:          auth,
		categories:    categories,
		tasks:         tasks,
		reminders:     reminders,
		loc:           loc,
		now:           time.Now,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]uint),
		views:         make(map[int64]view.State),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot api is not configured")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("handle callback: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if isCancelInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Cancelled.")
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not understand that. Send /newtask to add a task or /help for the list of commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start", "help":
		return b.handleHelp(msg)
	case "link":
		return b.handleLink(ctx, msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "tasks":
		return b.handleListTasks(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "complete":
		return b.handleSetCompleted(ctx, msg, true)
	case "undo":
		return b.handleSetCompleted(ctx, msg, false)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

// linkedUser returns the account linked to the sender, telling the chat how
// to link when there is none. A nil user with a nil error means "stop".
func (b *Bot) linkedUser(ctx context.Context, from *tgbotapi.User, chatID int64) (*model.User, error) {
	user, err := b.auth.UserByTelegram(ctx, from.ID)
	if apperr.IsType(err, apperr.TypeNotFound) {
		return nil, b.sendText(chatID, "This chat is not linked to an account yet. Send /link &lt;email&gt; &lt;password&gt;.")
	}
	if err != nil {
		return nil, b.sendError(chatID, err)
	}
	return user, nil
}

// SendDailyReports sends today's summary to every linked account.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.auth.LinkedUsers(ctx)
	if err != nil {
		return err
	}
	now := b.now().In(b.loc)
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if user.TelegramID == nil {
			continue
		}
		text, err := b.reminders.DailySummary(ctx, user, now)
		if err != nil {
			log.Printf("build summary for user %d: %v", user.ID, err)
			continue
		}
		if err := b.sendText(*user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", *user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendError(chatID int64, err error) error {
	if !isAppError(err) || apperr.IsType(err, apperr.TypeDatabase) {
		log.Printf("bot request failed: %v", err)
	}
	return b.sendText(chatID, "⚠️ "+escape(apperr.UserMessage(err)))
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) setConfirmation(userID int64, taskID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = taskID
}

// takeConfirmation removes and returns the pending deletion.
func (b *Bot) takeConfirmation(userID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.confirmations[userID]
	delete(b.confirmations, userID)
	return id, ok
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) viewState(chatID int64) view.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.views[chatID]; ok {
		return s
	}
	return view.Initial()
}

func (b *Bot) setViewState(chatID int64, s view.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views[chatID] = s
}

func isAppError(err error) bool {
	_, ok := apperr.As(err)
	return ok
}

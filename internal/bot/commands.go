package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplanner/internal/model"
	"taskplanner/internal/today"
	"taskplanner/internal/view"
)

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, helpText)
}

func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /link &lt;email&gt; &lt;password&gt;")
	}

	// The message carries a password; drop it from the chat history.
	if _, err := b.out.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.Printf("delete link message: %v", err)
	}

	user, err := b.auth.LinkTelegram(ctx, msg.From.ID, args[0], args[1])
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	log.Printf("[info] chat %d linked to user=%d", msg.From.ID, user.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🔗 This chat is now linked to <b>%s</b>. Try /today.", escape(user.Email)))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}

	text, markup, err := b.todayView(ctx, msg.Chat.ID, user, view.Initial(), nil)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, text, markup)
}

// todayView reloads the buckets, applies ev on top of state and renders.
func (b *Bot) todayView(ctx context.Context, chatID int64, user *model.User, state view.State, ev view.Event) (string, tgbotapi.InlineKeyboardMarkup, error) {
	now := b.now().In(b.loc)
	buckets, err := b.tasks.Today(ctx, user.ID, now)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	catNames, err := b.categoryNames(ctx, user.ID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	state = view.Next(state, view.Loaded{Counts: buckets.Counts()})
	if ev != nil {
		state = view.Next(state, ev)
	}
	b.setViewState(chatID, state)

	text, markup := renderToday(buckets, state, now, catNames)
	return text, markup, nil
}

func (b *Bot) categoryNames(ctx context.Context, userID uint) (map[uint]string, error) {
	categories, err := b.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}

	categories, err := b.categories.List(ctx, user.ID)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	tasks, err := b.tasks.ListTasks(ctx, user.ID, 0)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "You have no tasks yet. Add one with /newtask.")
	}

	byCategory := make(map[uint][]model.Task)
	for _, task := range tasks {
		byCategory[task.CategoryID] = append(byCategory[task.CategoryID], task)
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Tasks</b>\n")
	for _, cat := range categories {
		list := byCategory[cat.ID]
		if len(list) == 0 {
			continue
		}
		today.SortByDue(list)
		sb.WriteString(fmt.Sprintf("\n🏷️ <b>%s</b>\n", escape(cat.Name)))
		for _, task := range list {
			title := escape(task.Name)
			if task.IsCompleted {
				title = "<s>" + title + "</s>"
			}
			sb.WriteString(fmt.Sprintf("• <b>#%d</b> %s · %s\n", task.ID, title, dueLabel(task, b.loc)))
		}
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}
	categories, err := b.categories.List(ctx, user.ID)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. You can create one while adding a task with /newtask.")
	}
	var sb strings.Builder
	sb.WriteString("📂 <b>Categories</b>\n")
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(strings.TrimSpace(cat.Name))))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleSetCompleted(ctx context.Context, msg *tgbotapi.Message, completed bool) error {
	id, ok := parseID(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Give the task number: /%s 12", msg.Command()))
	}
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}

	task, err := b.tasks.SetCompleted(ctx, user.ID, id, completed)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	log.Printf("[info] task completed=%t id=%d user=%d", completed, task.ID, user.ID)
	if completed {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ «%s» is complete.", escape(task.Name)))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("↩️ «%s» is not complete anymore.", escape(task.Name)))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	id, ok := parseID(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give the task number: /delete 12")
	}
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}

	task, err := b.tasks.GetTask(ctx, user.ID, id)
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	b.setConfirmation(msg.From.ID, task.ID)
	text := fmt.Sprintf("Delete task «%s» (#%d)?", escape(task.Name), task.ID)
	return b.sendWithReplyMarkup(msg.Chat.ID, text, confirmDeleteKeyboard(task.ID))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}
	text, err := b.reminders.DailySummary(ctx, *user, b.now().In(b.loc))
	if err != nil {
		return b.sendError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelToday:
		return true, b.handleToday(ctx, msg)
	case menuLabelNewTask:
		return true, b.startNewTaskConversation(ctx, msg)
	case menuLabelTasks:
		return true, b.handleListTasks(ctx, msg)
	case menuLabelCategories:
		return true, b.handleCategories(ctx, msg)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	user, err := b.linkedUser(ctx, cb.From, chatID)
	if user == nil {
		return err
	}

	data := cb.Data
	log.Printf("[info] callback %q from %d", data, cb.From.ID)

	var ev view.Event
	switch {
	case strings.HasPrefix(data, cbSectionPrefix):
		section, ok := today.ParseSection(strings.TrimPrefix(data, cbSectionPrefix))
		if !ok {
			return nil
		}
		ev = view.Expand{Section: section}
	case data == cbNextPage:
		ev = view.NextPage{}
	case data == cbPrevPage:
		ev = view.PrevPage{}
	case data == cbRefresh:
	case strings.HasPrefix(data, cbDonePrefix), strings.HasPrefix(data, cbUndoPrefix):
		completed := strings.HasPrefix(data, cbDonePrefix)
		id, ok := parseID(data[strings.Index(data, ":")+1:])
		if !ok {
			return nil
		}
		if _, err := b.tasks.SetCompleted(ctx, user.ID, id, completed); err != nil {
			return b.sendError(chatID, err)
		}
	case strings.HasPrefix(data, cbConfirmPrefix):
		return b.confirmDelete(ctx, chatID, cb.From.ID, user, strings.TrimPrefix(data, cbConfirmPrefix))
	case strings.HasPrefix(data, cbCancelPrefix):
		b.clearConfirmation(cb.From.ID)
		return b.sendText(chatID, "Kept the task.")
	default:
		return nil
	}

	text, markup, err := b.todayView(ctx, chatID, user, b.viewState(chatID), ev)
	if err != nil {
		return b.sendError(chatID, err)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.out.Send(edit)
	return err
}

func (b *Bot) confirmDelete(ctx context.Context, chatID, fromID int64, user *model.User, raw string) error {
	id, ok := parseID(raw)
	if !ok {
		return nil
	}
	pending, ok := b.takeConfirmation(fromID)
	if !ok || pending != id {
		return b.sendText(chatID, "This confirmation has expired. Send /delete again.")
	}

	task, err := b.tasks.GetTask(ctx, user.ID, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if err := b.tasks.DeleteTask(ctx, user.ID, id); err != nil {
		return b.sendError(chatID, err)
	}
	log.Printf("[info] task deleted id=%d user=%d", id, user.ID)
	return b.sendText(chatID, fmt.Sprintf("🗑 Task «%s» deleted.", escape(task.Name)))
}

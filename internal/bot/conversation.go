package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplanner/internal/model"
	"taskplanner/internal/service"
)

type conversationStage int

const (
	stageName conversationStage = iota
	stageDescription
	stageCategory
	stageDue
)

// dueInputLayout is the format the bot asks for; other layouts accepted by
// model.ParseDueDate also work.
const dueInputLayout = "2006-01-02 15:04"

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		return err
	}
	log.Printf("[info] start new task conversation user=%d", user.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}
	user, err := b.linkedUser(ctx, msg.From, msg.Chat.ID)
	if user == nil {
		b.clearConversation(msg.From.ID)
		return err
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The name cannot be empty. What should the task be called?", cancelKeyboard())
		}
		state.input.Name = text
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ <b>Step 2:</b> add a short description (or press Skip).", skipKeyboard())

	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		state.stage = stageCategory
		categories, err := b.categories.List(ctx, user.ID)
		if err != nil {
			return b.sendError(msg.Chat.ID, err)
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 3:</b> pick a category or type a new one.", categoryKeyboard(categories))

	case stageCategory:
		category, err := b.resolveCategory(ctx, user.ID, text)
		if err != nil {
			return b.sendError(msg.Chat.ID, err)
		}
		state.input.CategoryID = category.ID
		state.stage = stageDue
		prompt := fmt.Sprintf("⏰ <b>Step 4:</b> when is it due? Use <code>%s</code> (or press Skip).", dueInputLayout)
		return b.sendWithReplyMarkup(msg.Chat.ID, prompt, skipKeyboard())

	case stageDue:
		if !isSkipInput(text) {
			due, ok := model.ParseDueDate(text, b.loc)
			if !ok {
				prompt := fmt.Sprintf("I cannot read that date. Use <code>%s</code> or press Skip.", dueInputLayout)
				return b.sendWithReplyMarkup(msg.Chat.ID, prompt, skipKeyboard())
			}
			state.input.DueDate = &due
		}
		err := b.finishTaskCreation(ctx, msg.Chat.ID, user, state.input)
		b.clearConversation(msg.From.ID)
		return err

	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Something went wrong. Start again with /newtask.")
	}
}

// resolveCategory finds the user's category by name, creating it when new.
func (b *Bot) resolveCategory(ctx context.Context, userID uint, name string) (*model.Category, error) {
	categories, err := b.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(strings.TrimSpace(categories[i].Name), name) {
			return &categories[i], nil
		}
	}
	return b.categories.Create(ctx, userID, name)
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, user *model.User, input service.TaskInput) error {
	task, err := b.tasks.CreateTask(ctx, user.ID, input)
	if err != nil {
		return b.sendError(chatID, err)
	}
	log.Printf("[info] task created id=%d user=%d", task.ID, user.ID)

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Name:</b> %s\n", escape(task.Name)))
	if task.Description != "" {
		summary.WriteString(fmt.Sprintf("• <b>Description:</b> %s\n", escape(task.Description)))
	}
	summary.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", dueLabel(*task, b.loc)))
	return b.sendText(chatID, strings.TrimSpace(summary.String()))
}

package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplanner/internal/model"
	"taskplanner/internal/today"
	"taskplanner/internal/view"
)

const (
	cbSectionPrefix = "sec:"
	cbDonePrefix    = "done:"
	cbUndoPrefix    = "undo:"
	cbDeletePrefix  = "del:"
	cbConfirmPrefix = "confirm:"
	cbCancelPrefix  = "cancel:"
	cbNextPage      = "page:next"
	cbPrevPage      = "page:prev"
	cbRefresh       = "refresh"
)

const (
	btnSkip             = "⏭️ Skip"
	btnCancelDialog     = "⏪ Cancel"
	menuLabelToday      = "📅 Today"
	menuLabelNewTask    = "➕ New task"
	menuLabelTasks      = "📋 Tasks"
	menuLabelCategories = "📂 Categories"
	menuLabelHelp       = "ℹ️ Help"
)

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /link &lt;email&gt; &lt;password&gt; — link this chat to your account\n" +
	"• /today — today's tasks by section\n" +
	"• /tasks — all tasks by category\n" +
	"• /categories — your categories\n" +
	"• /newtask — add a task step by step\n" +
	"• /complete &lt;id&gt; — mark a task complete\n" +
	"• /undo &lt;id&gt; — mark a task not complete\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /report — send today's summary now\n" +
	"• /cancel — cancel the current input"

func sectionIcon(s today.Section) string {
	switch s {
	case today.Overdue:
		return "⚠️"
	case today.Completed:
		return "✅"
	default:
		return "🔥"
	}
}

// renderToday draws today's view for state s: every section heading with its
// size, and the current page of the expanded section.
func renderToday(buckets today.Buckets, s view.State, now time.Time, catNames map[uint]string) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Today</b> · %s\n", now.Format("Mon, 02 Jan 2006")))

	counts := buckets.Counts()
	page := today.Paginate(buckets.Section(s.Expanded), s.Page(), today.PageSize)

	for _, section := range today.Sections {
		sb.WriteString(fmt.Sprintf("\n%s <b>%s</b> (%d)\n", sectionIcon(section), section.Title(), counts[section]))
		if section != s.Expanded {
			continue
		}
		if len(page.Items) == 0 {
			sb.WriteString("— " + section.EmptyMessage() + "\n")
			continue
		}
		for _, task := range page.Items {
			sb.WriteString(taskLine(task, catNames, now.Location()))
		}
		if page.Pages > 1 {
			sb.WriteString(fmt.Sprintf("<i>Page %d of %d</i>\n", page.Number, page.Pages))
		}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var tabs []tgbotapi.InlineKeyboardButton
	for _, section := range today.Sections {
		label := fmt.Sprintf("%s %d", sectionIcon(section), counts[section])
		if section == s.Expanded {
			label = "• " + label + " •"
		}
		tabs = append(tabs, tgbotapi.NewInlineKeyboardButtonData(label, cbSectionPrefix+section.String()))
	}
	rows = append(rows, tabs)

	for _, task := range page.Items {
		if task.IsCompleted {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("↩️ "+shortTitle(task.Name, 24), cbUndoPrefix+strconv.FormatUint(uint64(task.ID), 10)),
			))
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+shortTitle(task.Name, 24), cbDonePrefix+strconv.FormatUint(uint64(task.ID), 10)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", cbPrevPage))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("🔄", cbRefresh))
	if page.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", cbNextPage))
	}
	rows = append(rows, nav)

	return strings.TrimSpace(sb.String()), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func taskLine(task model.Task, catNames map[uint]string, loc *time.Location) string {
	title := escape(strings.TrimSpace(task.Name))
	if task.IsCompleted {
		title = "<s>" + title + "</s>"
	}
	line := fmt.Sprintf("• <b>#%d</b> %s · %s", task.ID, today.TimeLabel(task, loc), title)
	if name := strings.TrimSpace(catNames[task.CategoryID]); name != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", escape(name))
	}
	return line + "\n"
}

// dueLabel renders a full due date for lists spanning several days.
func dueLabel(task model.Task, loc *time.Location) string {
	if task.DueDate == nil {
		return today.NoTimeLabel
	}
	return task.DueDate.In(loc).Format("Mon 02 Jan 3:04 PM")
}

func escape(s string) string {
	return html.EscapeString(s)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func parseID(raw string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == "skip" || value == strings.ToLower(btnSkip)
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "cancel" || value == strings.ToLower(btnCancelDialog)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTasks),
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard offers the user's categories two per row.
func categoryKeyboard(categories []model.Category) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, cat := range categories {
		row = append(row, tgbotapi.NewKeyboardButton(cat.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func confirmDeleteKeyboard(taskID uint) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(uint64(taskID), 10)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbConfirmPrefix+id),
		tgbotapi.NewInlineKeyboardButtonData("↩️ Keep", cbCancelPrefix+id),
	))
}

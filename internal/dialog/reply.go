package dialog

import (
	"fmt"

	"budgetbot/internal/core"
	"budgetbot/internal/session"
)

// Button is one tappable option; Reply is the message descriptor handed to
// the transport collaborator, which owns the actual rendering.
type (
	Button struct {
		Label  string
		Action ActionID
	}

	Reply struct {
		Text     string
		Keyboard [][]Button
	}
)

// User-facing texts, Ukrainian like the seeded categories.
const (
	msgGreeting = "Вітаю! Я допоможу вести облік доходів та витрат і складати звіти."
	msgMainMenu = "Що ви хотіли б додати?"
	msgHelp     = "💰 Сімейний бюджет 💰\n\n" +
		"Команди:\n" +
		"/start - почати та показати головне меню\n" +
		"/help - показати цю довідку\n" +
		"/cancel - скасувати поточну операцію\n\n" +
		"Додавайте доходи і витрати, обирайте категорію, вводьте суму, " +
		"за бажанням додавайте опис та підтверджуйте запис. " +
		"Звіти доступні за день, тиждень, місяць або власний період."
	msgCancelled     = "Операцію скасовано."
	msgAborted       = "Операцію відмінено."
	msgSaved         = "Успішно додано!"
	msgIdleHint      = "Надішліть /start, щоб почати."
	msgNoCategories  = "Немає категорій для вибору."
	msgUnknownCat    = "Невідома категорія. Виберіть зі списку."
	msgEnterAmount   = "Будь ласка, введіть суму:"
	msgInvalidAmount = "Некоректна сума. Введіть додатне числове значення."
	msgEnterDesc     = "Введіть короткий опис:"
	msgReportMenu    = "Виберіть, за який період потрібен звіт:"
	msgEnterStart    = "Введіть початкову дату (ДД.ММ.РРРР):"
	msgEnterEnd      = "Введіть кінцеву дату (ДД.ММ.РРРР):"
	msgInvalidDate   = "Некоректна дата. Введіть у форматі ДД.ММ.РРРР."
	msgInvalidRange  = "Кінцева дата не може бути раніше початкової."
	msgStoreFailure  = "Сталася помилка. Спробуйте ще раз."
)

// FailureReply is sent when a store call fails and the transition was
// aborted; the user can simply retry the same action.
func FailureReply() Reply {
	return Reply{Text: msgStoreFailure}
}

func mainMenuKeyboard() [][]Button {
	return [][]Button{
		{{Label: "Додати дохід", Action: ActionAddIncome}},
		{{Label: "Додати витрати", Action: ActionAddExpense}},
		{{Label: "Звіт", Action: ActionReports}},
	}
}

func categoriesKeyboard(categories []core.Category) [][]Button {
	keyboard := make([][]Button, 0, len(categories)+1)
	for _, c := range categories {
		keyboard = append(keyboard, []Button{{Label: c.Name, Action: CategoryAction(c.ID)}})
	}
	keyboard = append(keyboard, []Button{{Label: "Назад", Action: ActionBackToMain}})
	return keyboard
}

func confirmKeyboard(withDescription bool) [][]Button {
	if withDescription {
		return [][]Button{
			{{Label: "Додати опис", Action: ActionAddDescription}},
			{{Label: "Підтвердити", Action: ActionConfirm}},
			{{Label: "Скасувати", Action: ActionCancel}},
		}
	}
	return [][]Button{
		{{Label: "Підтвердити", Action: ActionConfirm}},
		{{Label: "Скасувати", Action: ActionCancel}},
	}
}

func reportOptionsKeyboard() [][]Button {
	return [][]Button{
		{{Label: "Сьогодні", Action: ActionReportToday}},
		{{Label: "Цей тиждень", Action: ActionReportWeek}},
		{{Label: "Цей місяць", Action: ActionReportMonth}},
		{{Label: "Власний період", Action: ActionReportCustom}},
		{{Label: "Назад", Action: ActionBackToMain}},
	}
}

func reportNavKeyboard() [][]Button {
	return [][]Button{
		{{Label: "Назад до звітів", Action: ActionReports}},
		{{Label: "Головне меню", Action: ActionBackToMain}},
	}
}

func dateCancelKeyboard() [][]Button {
	return [][]Button{
		{{Label: "Скасувати", Action: ActionCancelDate}},
	}
}

func mainMenuReply(prefix string) Reply {
	text := msgMainMenu
	if prefix != "" {
		text = prefix + "\n\n" + msgMainMenu
	}
	return Reply{Text: text, Keyboard: mainMenuKeyboard()}
}

func reportMenuReply(prefix string) Reply {
	text := msgReportMenu
	if prefix != "" {
		text = prefix + "\n\n" + msgReportMenu
	}
	return Reply{Text: text, Keyboard: reportOptionsKeyboard()}
}

func selectCategoryReply(kind core.Kind, categories []core.Category, prefix string) Reply {
	text := fmt.Sprintf("Виберіть категорію (%s):", kind.Label())
	if prefix != "" {
		text = prefix + "\n" + text
	}
	return Reply{Text: text, Keyboard: categoriesKeyboard(categories)}
}

func confirmReply(sess session.Session) Reply {
	if sess.DescriptionSet {
		return Reply{
			Text: fmt.Sprintf("Ви додали %s на %s у категорії '%s'.\nОпис: %s\n\nПідтвердити?",
				sess.PendingKind.Label(), sess.PendingAmount.Format(), sess.PendingCategoryName, sess.PendingDescription),
			Keyboard: confirmKeyboard(false),
		}
	}
	return Reply{
		Text: fmt.Sprintf("Ви додали %s на %s у категорії '%s'.\nХочете додати опис чи підтвердити цю дію?",
			sess.PendingKind.Label(), sess.PendingAmount.Format(), sess.PendingCategoryName),
		Keyboard: confirmKeyboard(true),
	}
}

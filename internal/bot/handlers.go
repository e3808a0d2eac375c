package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.cfg.IsAllowedChat(chatID) {
		b.SendMessage(chatID, "⛔ Доступ запрещён")
		return
	}

	// Photos carry their command in the caption
	if len(msg.Photo) > 0 {
		b.handlePhoto(msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
	}
}

// handlePhoto routes photo messages whose caption is an attach command:
// a photo captioned "/set_photo Имя" becomes the member's portrait, one
// captioned "/add_event_photo Название" is appended to the event's album.
func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	caption := strings.TrimSpace(msg.Caption)
	if caption == "" || !strings.HasPrefix(caption, "/") {
		return
	}

	if !b.cfg.IsAdmin(msg.From.ID) {
		b.SendMessage(chatID, "⛔ Только администратор может менять данные")
		return
	}

	// Largest photo size is last
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	cmd, args, _ := strings.Cut(caption, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/set_photo":
		if args == "" {
			b.SendMessage(chatID, "Подпишите фото: /set_photo Имя Фамилия")
			return
		}
		person, err := b.personService.SetPhoto(args, fileID)
		if err != nil {
			b.SendMessage(chatID, "❌ "+err.Error())
			return
		}
		b.SendMessage(chatID, "✅ Фото сохранено для "+person.Name)
	case "/add_event_photo":
		if args == "" {
			b.SendMessage(chatID, "Подпишите фото: /add_event_photo Название события")
			return
		}
		event, err := b.eventService.AddPhoto(args, fileID)
		if err != nil {
			b.SendMessage(chatID, "❌ "+err.Error())
			return
		}
		b.SendMessage(chatID, "✅ Фото добавлено к событию «"+event.Title+"»")
	}
}

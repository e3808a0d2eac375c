package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kkrasnov/datesbot/config"
	"github.com/kkrasnov/datesbot/internal/service"
)

// sendSpacing keeps the dispatch loop under Telegram's rate limits.
const sendSpacing = 500 * time.Millisecond

// telegramAPI is the part of tgbotapi.BotAPI the bot calls.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api             telegramAPI
	cfg             *config.Config
	notifyService   *service.NotificationService
	personService   *service.PersonService
	eventService    *service.EventService
	calendarService *service.CalendarService
}

func New(cfg *config.Config, notifySvc *service.NotificationService, personSvc *service.PersonService, eventSvc *service.EventService, calendarSvc *service.CalendarService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:             api,
		cfg:             cfg,
		notifyService:   notifySvc,
		personService:   personSvc,
		eventService:    eventSvc,
		calendarService: calendarSvc,
	}

	bot.setCommands()

	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "today", Description: "📅 События на сегодня"},
		{Command: "list", Description: "👥 Список семьи"},
		{Command: "events", Description: "🎉 Список событий"},
		{Command: "ical", Description: "📆 Календарь на год"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	log.Println("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			// One at a time: a later update never overtakes an earlier one
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}

// SendPhoto sends a stored Telegram photo with a caption
func (b *Bot) SendPhoto(chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := b.api.Send(photo)
	return err
}

// SendDocument sends in-memory bytes as a file
func (b *Bot) SendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := b.api.Send(doc)
	return err
}

// SendTodayOccurrences runs the daily dispatch for one chat: it fetches the
// three occurrence sets for today, composes each message, and sends them one
// by one with spacing. A photo reference turns the message into a photo with
// the text as caption.
func (b *Bot) SendTodayOccurrences(chatID int64) error {
	now := time.Now().In(b.cfg.Timezone)

	birthdays, events, deaths, err := b.notifyService.TodayOccurrences(now)
	if err != nil {
		b.SendMessage(chatID, "❌ Ошибка при получении данных")
		return fmt.Errorf("today occurrences: %w", err)
	}

	if len(birthdays) == 0 && len(events) == 0 && len(deaths) == 0 {
		return b.SendMessage(chatID, "📅 Сегодня нет знаменательных дат")
	}

	for _, p := range birthdays {
		b.deliver(chatID, b.notifyService.BirthdayMessage(p, now), p.PhotoFileID)
		time.Sleep(sendSpacing)
	}
	for _, e := range events {
		b.deliver(chatID, b.notifyService.EventMessage(e, now), service.EventPhotoID(e))
		time.Sleep(sendSpacing)
	}
	for _, p := range deaths {
		b.deliver(chatID, b.notifyService.DeathAnniversaryMessage(p, now), p.PhotoFileID)
		time.Sleep(sendSpacing)
	}

	return nil
}

func (b *Bot) deliver(chatID int64, text, photoID string) {
	var err error
	if photoID != "" {
		err = b.SendPhoto(chatID, photoID, text)
	} else {
		err = b.SendMessage(chatID, text)
	}
	if err != nil {
		log.Printf("Error sending to %d: %v", chatID, err)
	}
}

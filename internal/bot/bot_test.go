package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kkrasnov/datesbot/config"
)

// fakeTelegram records outgoing message texts in order.
type fakeTelegram struct {
	mu      sync.Mutex
	sent    []string
	updates chan tgbotapi.Update
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.mu.Lock()
		f.sent = append(f.sent, m.Text)
		f.mu.Unlock()
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// gatedTelegram blocks every Send until release is closed and reports each
// send start on started.
type gatedTelegram struct {
	fakeTelegram
	started chan string
	release chan struct{}
}

func (g *gatedTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		g.started <- m.Text
	}
	<-g.release
	return tgbotapi.Message{}, nil
}

func newTestBot(api telegramAPI) *Bot {
	return &Bot{
		api: api,
		cfg: &config.Config{
			FamilyChatID:    100,
			AdminTelegramID: 1,
			Timezone:        time.UTC,
			NotifyTime:      "09:00",
		},
	}
}

func commandMessage(text string, fromID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 100},
		From:     &tgbotapi.User{ID: fromID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestStartHandlesUpdatesOneAtATime(t *testing.T) {
	api := &gatedTelegram{
		started: make(chan string, 2),
		release: make(chan struct{}),
	}
	api.updates = make(chan tgbotapi.Update, 2)
	b := newTestBot(api)

	api.updates <- tgbotapi.Update{Message: commandMessage("/help", 1)}
	api.updates <- tgbotapi.Update{Message: commandMessage("/help", 1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Start(ctx) }()

	// First reply is in flight and blocked
	<-api.started

	select {
	case <-api.started:
		t.Fatal("second update handled before the first finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(api.release)
	<-api.started

	cancel()
	assert.NoError(t, <-done)
}

func TestPhotoCommandsWithoutPhotoHintCaptionUsage(t *testing.T) {
	api := &fakeTelegram{}
	b := newTestBot(api)

	b.handleCommand(commandMessage("/set_photo", 1))
	b.handleCommand(commandMessage("/add_event_photo", 1))

	texts := api.texts()
	if assert.Len(t, texts, 2) {
		assert.Contains(t, texts[0], "фото с подписью")
		assert.Contains(t, texts[0], "/set_photo")
		assert.Contains(t, texts[1], "фото с подписью")
		assert.Contains(t, texts[1], "/add_event_photo")
	}
}

func TestPhotoCommandsRequireAdmin(t *testing.T) {
	api := &fakeTelegram{}
	b := newTestBot(api)

	b.handleCommand(commandMessage("/set_photo", 100))

	texts := api.texts()
	if assert.Len(t, texts, 1) {
		assert.Contains(t, texts[0], "Только администратор")
	}
}

func TestUnknownCommandAnsweredForEveryone(t *testing.T) {
	api := &fakeTelegram{}
	b := newTestBot(api)

	b.handleCommand(commandMessage("/frobnicate", 100))

	texts := api.texts()
	if assert.Len(t, texts, 1) {
		assert.Contains(t, texts[0], "Неизвестная команда")
	}
}

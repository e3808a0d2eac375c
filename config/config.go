package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	TelegramToken   string
	FamilyChatID    int64
	AdminTelegramID int64
	DatabasePath    string
	Timezone        *time.Location
	NotifyTime      string
	CalDAVURL       string
	CalDAVUsername  string
	CalDAVPassword  string
	CalDAVCalendar  string
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	familyChatID, err := strconv.ParseInt(os.Getenv("FAMILY_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("FAMILY_CHAT_ID is required and must be a number")
	}

	adminID, err := strconv.ParseInt(os.Getenv("ADMIN_TELEGRAM_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required and must be a number")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/datesbot.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Europe/Moscow"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	notifyTime := os.Getenv("NOTIFY_TIME")
	if notifyTime == "" {
		notifyTime = "09:00"
	}

	return &Config{
		TelegramToken:   token,
		FamilyChatID:    familyChatID,
		AdminTelegramID: adminID,
		DatabasePath:    dbPath,
		Timezone:        tz,
		NotifyTime:      notifyTime,
		CalDAVURL:       os.Getenv("CALDAV_URL"),
		CalDAVUsername:  os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:  os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar:  os.Getenv("CALDAV_CALENDAR"),
	}, nil
}

// IsAdmin reports whether a Telegram user may run mutating commands
func (c *Config) IsAdmin(telegramID int64) bool {
	return telegramID == c.AdminTelegramID
}

// IsAllowedChat reports whether the bot answers in a chat at all
func (c *Config) IsAllowedChat(chatID int64) bool {
	return chatID == c.FamilyChatID || chatID == c.AdminTelegramID
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/kkrasnov/datesbot/config"
)

// Notifier runs the daily dispatch for a destination chat.
type Notifier interface {
	SendTodayOccurrences(chatID int64) error
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	notifier Notifier
}

func New(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(cfg.Timezone)),
		cfg:  cfg,
	}
}

func (s *Scheduler) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Scheduler) Start(ctx context.Context) error {
	spec, err := cronSpec(s.cfg.NotifyTime)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(spec, s.dailyNotify); err != nil {
		return fmt.Errorf("add daily notify: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, notify at %s)", s.cfg.Timezone, s.cfg.NotifyTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// cronSpec turns "09:00" into "0 9 * * *"
func cronSpec(hhmm string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid NOTIFY_TIME %q, want HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid NOTIFY_TIME hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid NOTIFY_TIME minute %q", parts[1])
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func (s *Scheduler) dailyNotify() {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendTodayOccurrences(s.cfg.FamilyChatID); err != nil {
		log.Printf("Error sending daily notification: %v", err)
	}
}

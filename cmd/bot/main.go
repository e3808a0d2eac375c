package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kkrasnov/datesbot/config"
	"github.com/kkrasnov/datesbot/internal/bot"
	"github.com/kkrasnov/datesbot/internal/clients/caldav"
	"github.com/kkrasnov/datesbot/internal/morph"
	"github.com/kkrasnov/datesbot/internal/scheduler"
	"github.com/kkrasnov/datesbot/internal/service"
	"github.com/kkrasnov/datesbot/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	// First-run seeding, outside the notification engine
	if err := store.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed storage: %v", err)
	}

	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
	if cfg.CalDAVCalendar != "" {
		caldavClient.SetCalendarPath(cfg.CalDAVCalendar)
	}

	notifySvc := service.NewNotificationService(store, morph.New())
	personSvc := service.NewPersonService(store)
	eventSvc := service.NewEventService(store)
	calendarSvc := service.NewCalendarService(store, caldavClient)

	tgBot, err := bot.New(cfg, notifySvc, personSvc, eventSvc, calendarSvc)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	sched := scheduler.New(cfg)
	sched.SetNotifier(tgBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := tgBot.Start(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}()

	log.Println("DatesBot started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	log.Println("DatesBot stopped")
}

package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kkrasnov/datesbot/internal/domain"
	"github.com/kkrasnov/datesbot/internal/service"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	// Read commands are open to the family chat, mutations need the admin
	switch cmd {
	case "start":
		b.cmdStart(chatID)
		return
	case "help":
		b.cmdHelp(chatID)
		return
	case "today", "test_notify":
		if err := b.SendTodayOccurrences(chatID); err != nil {
			log.Printf("Error dispatching /%s: %v", cmd, err)
		}
		return
	case "list":
		b.cmdList(chatID)
		return
	case "events":
		b.cmdEvents(chatID)
		return
	case "ical":
		b.cmdIcal(chatID)
		return
	}

	switch cmd {
	case "add_member", "del_member", "set_death", "set_gender", "set_photo", "add_event", "del_event", "add_event_photo", "calsync":
	default:
		b.SendMessage(chatID, "Неизвестная команда. /help для списка команд")
		return
	}

	if !b.cfg.IsAdmin(msg.From.ID) {
		b.SendMessage(chatID, "⛔ Только администратор может менять данные")
		return
	}

	switch cmd {
	case "add_member":
		b.cmdAddMember(chatID, args)
	case "del_member":
		b.cmdDelMember(chatID, args)
	case "set_death":
		b.cmdSetDeath(chatID, args)
	case "set_gender":
		b.cmdSetGender(chatID, args)
	case "set_photo":
		// Works only as a photo caption
		b.SendMessage(chatID, "📷 Отправьте фото с подписью: /set_photo Имя Фамилия")
	case "add_event":
		b.cmdAddEvent(chatID, args)
	case "del_event":
		b.cmdDelEvent(chatID, args)
	case "add_event_photo":
		b.SendMessage(chatID, "📷 Отправьте фото с подписью: /add_event_photo Название события")
	case "calsync":
		b.cmdCalSync(chatID)
	}
}

func (b *Bot) cmdStart(chatID int64) {
	b.SendMessage(chatID,
		"👋 Привет! Я напоминаю о днях рождения и семейных датах.\n\n"+
			"📅 /today — события на сегодня\n"+
			"👥 /list — список семьи\n"+
			"🎉 /events — список событий\n"+
			"❓ /help — все команды\n\n"+
			fmt.Sprintf("⚡ Автоматические уведомления каждый день в %s!", b.cfg.NotifyTime))
}

func (b *Bot) cmdHelp(chatID int64) {
	text := `<b>Команды:</b>

<b>Просмотр</b>
/today — события на сегодня
/list — список семьи
/events — список событий
/ical — календарь на год файлом

<b>Семья</b> (только админ)
/add_member Имя Фамилия 15.03.1990 M — добавить
/del_member Имя Фамилия — удалить
/set_death Имя Фамилия 01.02.2020 — отметить дату смерти
/set_gender Имя Фамилия F — указать пол
📷 фото с подписью /set_photo Имя Фамилия — портрет

<b>События</b> (только админ)
/add_event Название | 27.07.2017 | anniversary | Описание
/del_event Название
📷 фото с подписью /add_event_photo Название
/calsync — выгрузить даты в CalDAV-календарь`

	b.SendMessage(chatID, text)
}

func (b *Bot) cmdList(chatID int64) {
	people, err := b.personService.List()
	if err != nil {
		b.SendMessage(chatID, "❌ Ошибка при получении данных")
		return
	}
	b.SendMessage(chatID, b.personService.FormatMemberList(people, time.Now().In(b.cfg.Timezone)))
}

func (b *Bot) cmdEvents(chatID int64) {
	events, err := b.eventService.List()
	if err != nil {
		b.SendMessage(chatID, "❌ Ошибка при получении данных")
		return
	}
	b.SendMessage(chatID, b.eventService.FormatEventList(events, time.Now().In(b.cfg.Timezone)))
}

func (b *Bot) cmdIcal(chatID int64) {
	year := time.Now().In(b.cfg.Timezone).Year()
	cal, count, err := b.calendarService.BuildYearCalendar(year)
	if err != nil {
		b.SendMessage(chatID, "❌ Ошибка при сборке календаря")
		return
	}
	if count == 0 {
		b.SendMessage(chatID, "📅 В базе пока нет дат для календаря")
		return
	}
	data, err := service.EncodeCalendar(cal)
	if err != nil {
		b.SendMessage(chatID, "❌ Ошибка при сборке календаря")
		return
	}
	name := fmt.Sprintf("family-%d.ics", year)
	if err := b.SendDocument(chatID, name, data); err != nil {
		log.Printf("Error sending calendar: %v", err)
	}
}

func (b *Bot) cmdAddMember(chatID int64, args string) {
	name, birthDate, gender, err := service.ParseAddMemberArgs(args)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	person, err := b.personService.Create(name, birthDate, gender)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.SendMessage(chatID, fmt.Sprintf("✅ %s добавлен(а): %s", person.Name, person.BirthDate.Format("02.01.2006")))
}

func (b *Bot) cmdDelMember(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Укажите имя: /del_member Имя Фамилия")
		return
	}
	if err := b.personService.Delete(args); err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	b.SendMessage(chatID, "✅ Удалён(а): "+args)
}

func (b *Bot) cmdSetDeath(chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		b.SendMessage(chatID, "Формат: /set_death Имя Фамилия 01.02.2020")
		return
	}

	deathDate, err := service.ParseDate(parts[len(parts)-1])
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	name := strings.Join(parts[:len(parts)-1], " ")

	person, err := b.personService.SetDeathDate(name, deathDate)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	b.SendMessage(chatID, fmt.Sprintf("🕯️ %s: дата смерти %s сохранена", person.Name, deathDate.Format("02.01.2006")))
}

func (b *Bot) cmdSetGender(chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		b.SendMessage(chatID, "Формат: /set_gender Имя Фамилия F")
		return
	}

	var gender domain.Gender
	switch strings.ToUpper(parts[len(parts)-1]) {
	case "M", "М":
		gender = domain.GenderMale
	case "F", "Ж":
		gender = domain.GenderFemale
	default:
		b.SendMessage(chatID, "❌ Пол указывается как M или F")
		return
	}
	name := strings.Join(parts[:len(parts)-1], " ")

	person, err := b.personService.SetGender(name, gender)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	b.SendMessage(chatID, "✅ Пол обновлён для "+person.Name)
}

func (b *Bot) cmdAddEvent(chatID int64, args string) {
	title, eventDate, category, description, err := service.ParseAddEventArgs(args)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	event, err := b.eventService.Create(title, eventDate, category, description)
	if err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}

	b.SendMessage(chatID, fmt.Sprintf("✅ Событие «%s» добавлено: %s", event.Title, event.EventDate.Format("02.01.2006")))
}

func (b *Bot) cmdDelEvent(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Укажите название: /del_event Название")
		return
	}
	if err := b.eventService.Delete(args); err != nil {
		b.SendMessage(chatID, "❌ "+err.Error())
		return
	}
	b.SendMessage(chatID, "✅ Событие удалено: "+args)
}

func (b *Bot) cmdCalSync(chatID int64) {
	if !b.calendarService.IsPublishConfigured() {
		b.SendMessage(chatID, "❌ CalDAV не настроен (CALDAV_URL, CALDAV_USERNAME, CALDAV_PASSWORD)")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	year := time.Now().In(b.cfg.Timezone).Year()
	published, err := b.calendarService.PublishYear(ctx, year)
	if err != nil {
		b.SendMessage(chatID, fmt.Sprintf("❌ Выгружено %d, затем ошибка: %s", published, err))
		return
	}
	b.SendMessage(chatID, fmt.Sprintf("✅ Выгружено %d дат за %d год", published, year))
}

package notification

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	tb "gopkg.in/tucnak/telebot.v2"
)

var commands = []tb.Command{
	{Text: "/help", Description: "Display help instructions"},
	{Text: "/levels", Description: "List the watched price levels"},
}

// TelegramSettings configures the bot.
type TelegramSettings struct {
	Token string
	Users []int
}

// Telegram notifies authorized users and answers /levels and /help.
type Telegram struct {
	log      logger.Logger
	settings TelegramSettings
	alerts   *Alerts
	client   *tb.Bot
}

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(log logger.Logger, settings TelegramSettings, alerts *Alerts) (*Telegram, error) {
	if log == nil {
		log = logger.Nop()
	}

	poller := &tb.LongPoller{Timeout: 10 * time.Second}
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Token,
		Poller:    authMiddleware(log, poller, settings.Users),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if err := client.SetCommands(commands); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	t := &Telegram{log: log, settings: settings, alerts: alerts, client: client}
	client.Handle("/help", t.HelpHandle)
	client.Handle("/levels", t.LevelsHandle)
	return t, nil
}

// authMiddleware drops updates from users outside the allow list
func authMiddleware(log logger.Logger, poller tb.Poller, users []int) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			return false
		}
		if slices.Contains(users, int(u.Message.Sender.ID)) {
			return true
		}

		log.WithField("user", u.Message.Sender.ID).Warn("unauthorized telegram user")
		return false
	})
}

// Start polls for commands in the background and greets every user
func (t *Telegram) Start() {
	go t.client.Start()
	t.Notify("Price alerts started.")
}

// Stop ends polling
func (t *Telegram) Stop() {
	t.client.Stop()
}

// Notify sends a message to all authorized users
func (t *Telegram) Notify(text string) {
	for _, user := range t.settings.Users {
		if _, err := t.client.Send(&tb.User{ID: int64(user)}, text); err != nil {
			t.log.WithError(err).Error("failed to send notification")
		}
	}
}

// HelpHandle lists the commands
func (t *Telegram) HelpHandle(m *tb.Message) {
	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("%s - %s", command.Text, command.Description))
	}
	t.reply(m, strings.Join(lines, "\n"))
}

// LevelsHandle lists the watched levels
func (t *Telegram) LevelsHandle(m *tb.Message) {
	t.reply(m, levelsMessage(t.alerts))
}

func (t *Telegram) reply(m *tb.Message, text string) {
	if _, err := t.client.Send(m.Sender, text); err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

func levelsMessage(alerts *Alerts) string {
	if alerts == nil || len(alerts.Levels()) == 0 {
		return "No levels watched."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*LEVELS %s*\n", alerts.symbol)
	for _, level := range alerts.Levels() {
		fmt.Fprintf(&b, "%s\n", core.FormatPrice(level))
	}
	return b.String()
}

package main

import (
	"github.com/raykavin/lwcharts/internal/config"
	"github.com/raykavin/lwcharts/pkg/chart"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/notification"
)

// setupAlerts marks the configured levels on the chart and returns the sink
// watching them, or nil when no level is configured. stop releases the
// notifiers.
func setupAlerts(cfg *config.Config, log logger.Logger, c *chart.Chart, history []core.Record) (alerts *notification.Alerts, stop func(), err error) {
	stop = func() {}
	if len(cfg.Alerts.Levels) == 0 {
		return nil, stop, nil
	}

	log = log.WithField("component", "alerts")
	var options []notification.AlertsOption
	options = append(options, notification.WithAlertsLogger(log))

	if cfg.Alerts.Mail.Enabled {
		options = append(options, notification.WithNotifier(notification.NewMail(log, notification.MailParams{
			SMTPServerPort:    cfg.Alerts.Mail.Port,
			SMTPServerAddress: cfg.Alerts.Mail.Server,
			To:                cfg.Alerts.Mail.To,
			From:              cfg.Alerts.Mail.From,
			Password:          cfg.Alerts.Mail.Password,
		})))
	}

	alerts = notification.NewAlerts(cfg.Feed.Pair, cfg.Alerts.Levels, options...)

	if cfg.Alerts.Telegram.Enabled {
		bot, err := notification.NewTelegram(log, notification.TelegramSettings{
			Token: cfg.Alerts.Telegram.Token,
			Users: cfg.Alerts.Telegram.Users,
		}, alerts)
		if err != nil {
			return nil, stop, err
		}
		notification.WithNotifier(bot)(alerts)
		bot.Start()
		stop = bot.Stop
	}

	for _, level := range alerts.Levels() {
		c.AddPriceMarker(chart.NewPriceMarker(level))
	}
	if len(history) > 0 {
		if err := alerts.Push(history[len(history)-1]); err != nil {
			log.WithError(err).Warn("alerts have no reference price")
		}
	}
	return alerts, stop, nil
}

package notification

import (
	"fmt"
	"net/smtp"

	"github.com/raykavin/lwcharts/pkg/logger"
)

// Mail handles email notifications
type Mail struct {
	log               logger.Logger
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
	send              func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(log logger.Logger, params MailParams) *Mail {
	if log == nil {
		log = logger.Nop()
	}
	return &Mail{
		log:               log,
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth:              smtp.PlainAuth("", params.From, params.Password, params.SMTPServerAddress),
		send:              smtp.SendMail,
	}
}

// Notify sends an email notification with the given text
func (m *Mail) Notify(text string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)
	if err := m.send(serverAddress, m.auth, m.from, []string{m.to}, m.message(text)); err != nil {
		m.log.WithError(err).Error("failed to send email")
	}
}

func (m *Mail) message(text string) []byte {
	return fmt.Appendf(nil, "To: <%s>\r\nFrom: <%s>\r\nSubject: Price alert\r\n\r\n%s\r\n", m.to, m.from, text)
}

package email

import (
	"fmt"
	"net/smtp"

	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/models"
	"github.com/jordan-wright/email"
	log "github.com/sirupsen/logrus"
)

// Sender relays contact-form messages over SMTP.
type Sender struct {
	cfg *config.Config
}

// NewSender creates a new email sender. Returns nil if SMTP is not
// configured; callers treat a nil sender as "relay disabled".
func NewSender(cfg *config.Config) *Sender {
	if cfg.SMTPHost == "" || cfg.SenderEmail == "" {
		return nil
	}
	return &Sender{cfg: cfg}
}

// SendContactMessage forwards a stored contact-form message to the site
// contact address.
func (s *Sender) SendContactMessage(msg *models.ContactMessage, to string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.ReplyTo = []string{msg.Email}
	e.Subject = fmt.Sprintf("رسالة جديدة من %s", msg.Name)

	body := fmt.Sprintf(
		"الاسم: %s\nالبريد الإلكتروني: %s\nرقم الهاتف: %s\n\n%s\n",
		msg.Name, msg.Email, msg.Phone, msg.Message,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		log.Errorf("Failed to relay contact message %s: %v", msg.MessageID, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Infof("Contact message %s relayed to %s", msg.MessageID, to)
	return nil
}

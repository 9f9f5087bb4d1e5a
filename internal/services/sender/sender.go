// Package services содержит логику пересылки принятых обращений
// с контактной формы на почтовый ящик офиса.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	smtplib "github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/smtp"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
)

// SenderService пересылает обращения из очереди по электронной почте.
type SenderService struct {
	transport   smtplib.TransportInterface
	officeEmail string
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtplib.TransportInterface, officeEmail string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:   transport,
		officeEmail: officeEmail,
		log:         log,
	}
}

// SendLeadNotification разбирает сообщение очереди с принятым обращением
// и отправляет письмо на ящик офиса.
func (s *SenderService) SendLeadNotification(body []byte) error {
	var lead models.Lead
	if err := json.Unmarshal(body, &lead); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.officeEmail}
	subject := fmt.Sprintf("Новое обращение с сайта: %s", lead.Subject)
	bodyText := fmt.Sprintf(`Поступило новое обращение с контактной формы.

Имя: %s
Email: %s
Телефон: %s
Тема: %s

%s

Принято: %s`,
		lead.Name, lead.Email, lead.Phone, lead.Subject, lead.Message,
		lead.CreatedAt.Format("02.01.2006 15:04"))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("lead notification sent", "to", to)
	return nil
}

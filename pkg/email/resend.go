package email

import (
	"bytes"
	"html/template"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	log          *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, log *zap.Logger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(apiKey),
		from:         from,
		fromName:     fromName,
		templatesDir: "pkg/email/templates",
		log:          log,
	}
}

func (s *EmailService) SendSubscriptionConfirmation(email, fullName, programName string) error {
	s.log.Info("sending subscription confirmation",
		zap.String("email", email),
		zap.String("program", programName))

	templateData := map[string]interface{}{
		"FullName": fullName,
		"Program":  programName,
		"Email":    email,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("subscription-confirmation.html", templateData)
	if err != nil {
		s.log.Error("failed to parse confirmation template", zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Welcome to " + programName + "!",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.log.Error("failed to send confirmation email", zap.String("email", email), zap.Error(err))
		return err
	}

	s.log.Info("confirmation email sent", zap.String("email", email), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}

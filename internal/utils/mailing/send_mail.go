package mailing

import (
	"bytes"
	"html/template"
	"strconv"

	"nutriscan-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfigOr("SMTP_SENDER_NAME", "NutriScan"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Enabled reports whether enough SMTP settings exist to send mail.
func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPEmail != ""
}

func NewMessage(cfg MailConfig, toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", cfg.SMTPEmail, cfg.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := NewMessage(emailConfig, toEmail, subject, body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	err = dialer.DialAndSend(mailer)
	if err != nil {
		return err
	}

	return nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Name}},</p>
<p>Welcome to NutriScan. Complete your profile to get personalized daily goals:
<a href="{{.AppURL}}/onboarding">{{.AppURL}}/onboarding</a></p>
<p>Happy scanning!</p>`))

func RenderWelcome(name string, appURL string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name   string
		AppURL string
	}{Name: name, AppURL: appURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Mailer is the outbound mail dependency of the user service.
type Mailer interface {
	SendWelcome(toEmail string, name string) error
}

type smtpMailer struct{}

func NewSMTPMailer() Mailer {
	return &smtpMailer{}
}

func (m *smtpMailer) SendWelcome(toEmail string, name string) error {
	cfg := LoadMailConfig()
	if !cfg.Enabled() {
		return nil
	}
	body, err := RenderWelcome(name, cfg.AppURL)
	if err != nil {
		return err
	}
	return SendMail(toEmail, "Welcome to NutriScan", body)
}

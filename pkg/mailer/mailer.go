package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"scapegis-backend/pkg/config"
)

// Sender delivers account emails. The auth core only depends on this
// interface; tests swap in a recorder.
type Sender interface {
	SendVerificationEmail(toEmail, name, verificationToken string) error
}

// SMTPSender sends mail through a plain STARTTLS SMTP relay.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	fromEmail   string
	fromName    string
	frontendURL string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	fromEmail := cfg.FromEmail
	if fromEmail == "" {
		fromEmail = cfg.SMTPUsername
	}
	return &SMTPSender{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromEmail:   fromEmail,
		fromName:    cfg.FromName,
		frontendURL: cfg.FrontendURL,
	}
}

func (s *SMTPSender) SendVerificationEmail(toEmail, name, verificationToken string) error {
	verifyURL := fmt.Sprintf("%s/verify?token=%s", s.frontendURL, verificationToken)

	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}

	subject := "Verify Your ScapeGIS Account"
	body := fmt.Sprintf(
		"%s,\r\n\r\n"+
			"Welcome to ScapeGIS! Please verify your email address by opening the link below:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 24 hours. If you did not create an account, you can ignore this email.\r\n",
		greeting, verifyURL)

	return s.send(toEmail, subject, body)
}

func (s *SMTPSender) send(toEmail, subject, body string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.fromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", toEmail))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, []byte(msg.String()))
}

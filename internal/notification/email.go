package notification

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
)

// Attachment is a file carried by an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailSender delivers mail over SMTP with STARTTLS.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
	}
}

// Send delivers an HTML email with optional attachments.
func (e *EmailSender) Send(to []string, subject, htmlBody string, attachments ...Attachment) error {
	message, err := e.buildMessage(to, subject, htmlBody, attachments)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)
	if err := e.sendMailWithTLS(addr, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (e *EmailSender) buildMessage(to []string, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var msg strings.Builder
	from := fmt.Sprintf("%s <%s>", e.FromName, e.FromAddr)
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		msg.WriteString(htmlBody)
		return []byte(msg.String()), nil
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary()))

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=\"UTF-8\""},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	for _, att := range attachments {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {att.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", att.Filename)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", att.Filename, err)
		}
		encoded := base64.StdEncoding.EncodeToString(att.Data)
		// Wrap base64 lines at 76 characters per RFC 2045
		for len(encoded) > 76 {
			if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[76:]
		}
		if _, err := part.Write([]byte(encoded + "\r\n")); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	msg.WriteString(body.String())
	return []byte(msg.String()), nil
}

func (e *EmailSender) sendMailWithTLS(addr string, to []string, message []byte) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         e.Host,
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err = client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}

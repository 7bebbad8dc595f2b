package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"ratemypic/config"
)

// SendMail delivers a plain-text message over SMTP with STARTTLS.
func SendMail(cfg config.SMTPConfig, to, subject, body string) error {
	client, err := smtp.Dial(cfg.Host + ":" + cfg.Port)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(cfg.User); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := fmt.Fprintf(wc, "To: %s\r\nSubject: %s\r\n\r\n%s", to, subject, body); err != nil {
		return fmt.Errorf("write mail body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close mail body: %w", err)
	}

	return client.Quit()
}

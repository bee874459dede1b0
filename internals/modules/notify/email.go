package notify

import (
	"context"
	"fmt"
	"sitepulse/config"
	"sitepulse/internals/modules/report"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type EmailChannel struct {
	cfg    *config.EmailConfig
	logger *zerolog.Logger
}

func NewEmailChannel(cfg *config.EmailConfig, logger *zerolog.Logger) *EmailChannel {
	return &EmailChannel{
		cfg:    cfg,
		logger: logger,
	}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) from() string {
	if e.cfg.From != "" {
		return e.cfg.From
	}
	return e.cfg.Username
}

func (e *EmailChannel) Send(ctx context.Context, rep *report.CycleReport) error {
	htmlBody, err := renderHTML(rep)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	subject := fmt.Sprintf("Site monitoring %s - %s",
		rep.OverallStatus, rep.Timestamp.Format(time.RFC1123))

	return e.send(subject, renderText(rep), htmlBody)
}

func (e *EmailChannel) SendSystemError(ctx context.Context, cycleErr error) error {
	subject := "Site monitoring SYSTEM ERROR"
	text := fmt.Sprintf("The monitoring cycle itself failed:\n\n%v\n", cycleErr)
	html := fmt.Sprintf(
		`<html><body style="font-family: sans-serif;"><h2 style="color: %s;">Monitoring system error</h2><pre>%v</pre></body></html>`,
		colorError, cycleErr)

	return e.send(subject, text, html)
}

func (e *EmailChannel) send(subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from())
	m.SetHeader("To", e.cfg.Recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(e.cfg.Host, e.cfg.Port, e.cfg.Username, e.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	e.logger.Debug().Int("recipients", len(e.cfg.Recipients)).Msg("report email sent")
	return nil
}

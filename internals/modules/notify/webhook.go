package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sitepulse/config"
	"sitepulse/internals/modules/report"
	"sitepulse/pkg/httpclient"
	"time"

	"github.com/rs/zerolog"
)

const webhookTimeout = 10 * time.Second

// chat webhook payload, Mattermost/Slack compatible
type chatPayload struct {
	Username    string           `json:"username,omitempty"`
	IconEmoji   string           `json:"icon_emoji,omitempty"`
	Attachments []chatAttachment `json:"attachments"`
}

type chatAttachment struct {
	Color     string      `json:"color"`
	Title     string      `json:"title"`
	Text      string      `json:"text,omitempty"`
	Fields    []chatField `json:"fields,omitempty"`
	Footer    string      `json:"footer,omitempty"`
	Timestamp int64       `json:"ts,omitempty"`
}

type chatField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type ChatChannel struct {
	cfg    *config.ChatConfig
	client *http.Client
	logger *zerolog.Logger
}

func NewChatChannel(cfg *config.ChatConfig, logger *zerolog.Logger) *ChatChannel {
	client := httpclient.NewHttpClient()
	client.Timeout = webhookTimeout

	return &ChatChannel{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

func (c *ChatChannel) Name() string { return "chat-webhook" }

func (c *ChatChannel) Send(ctx context.Context, rep *report.CycleReport) error {
	// failures-only mode suppresses the message when everything passed
	if c.cfg.FailuresOnly && rep.OverallStatus == report.StatusPass {
		c.logger.Debug().Str("cycle_id", rep.ID.String()).Msg("cycle passed, chat notification suppressed")
		return nil
	}

	att := chatAttachment{
		Color:     statusColor(rep.OverallStatus),
		Title:     fmt.Sprintf("Site monitoring: %s", rep.OverallStatus),
		Timestamp: rep.Timestamp.Unix(),
	}

	for _, o := range rep.Outcomes {
		verdict := "❌ failed"
		if o.Passed {
			verdict = "✅ passed"
		}
		att.Fields = append(att.Fields, chatField{
			Title: o.Name.Title(),
			Value: fmt.Sprintf("%s (%s)", verdict, outcomeLine(o)),
			Short: false,
		})
	}

	if rep.OverallStatus != report.StatusPass {
		att.Footer = fmt.Sprintf("%d check(s) failed", rep.FailureCount())
	}

	return c.post(ctx, chatPayload{
		Username:    c.cfg.Username,
		IconEmoji:   c.cfg.IconEmoji,
		Attachments: []chatAttachment{att},
	})
}

func (c *ChatChannel) SendSystemError(ctx context.Context, cycleErr error) error {
	return c.post(ctx, chatPayload{
		Username:  c.cfg.Username,
		IconEmoji: c.cfg.IconEmoji,
		Attachments: []chatAttachment{{
			Color:     colorError,
			Title:     "Site monitoring: SYSTEM ERROR",
			Text:      fmt.Sprintf("The monitoring cycle itself failed: %v", cycleErr),
			Timestamp: time.Now().Unix(),
		}},
	})
}

func (c *ChatChannel) post(ctx context.Context, payload chatPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	c.logger.Debug().Msg("chat notification sent")
	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/types"
)

const (
	defaultChannel       = "#leads"
	defaultWebhookEnvVar = "SLACK_WEBHOOK_URL"
	defaultSlackTimeout  = 10 * time.Second

	// slackPreview caps the lead sections in one message.
	slackPreview = 10
)

// SlackConfig configures the Slack webhook notifier. The webhook URL is
// read from WebhookEnvVar unless WebhookURL is set. Channel is only shown by
// the console notifier; a webhook posts to the channel it was created for.
type SlackConfig struct {
	WebhookEnvVar string        `yaml:"webhook_env_var"`
	WebhookURL    string        `yaml:"-"`
	Channel       string        `yaml:"channel"`
	Timeout       time.Duration `yaml:"timeout"`
}

// DefaultSlackConfig returns the default Slack configuration
func DefaultSlackConfig() SlackConfig {
	return SlackConfig{
		WebhookEnvVar: defaultWebhookEnvVar,
		Channel:       defaultChannel,
		Timeout:       defaultSlackTimeout,
	}
}

func (c SlackConfig) channel() string {
	if c.Channel == "" {
		return defaultChannel
	}
	return c.Channel
}

func (c SlackConfig) webhookURL() string {
	if c.WebhookURL != "" {
		return c.WebhookURL
	}
	envVar := c.WebhookEnvVar
	if envVar == "" {
		envVar = defaultWebhookEnvVar
	}
	return strings.TrimSpace(os.Getenv(envVar))
}

// Slack posts a Block Kit summary to an incoming webhook.
type Slack struct {
	cfg    SlackConfig
	client *http.Client
}

// NewSlack creates a Slack notifier.
func NewSlack(cfg SlackConfig) *Slack {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSlackTimeout
	}
	return &Slack{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Notify posts the run summary. No leads is a successful no-op; a missing
// webhook or a failed post reports false.
func (s *Slack) Notify(ctx context.Context, leads []*types.Lead, stats pipeline.Stats) bool {
	if len(leads) == 0 {
		log.Printf("[NOTIFY] No leads to notify about")
		return true
	}
	url := s.cfg.webhookURL()
	if url == "" {
		log.Printf("[NOTIFY] Slack webhook not configured, skipping notification")
		return false
	}

	body, err := json.Marshal(buildMessage(leads, stats))
	if err != nil {
		log.Printf("[NOTIFY] Failed to encode Slack message: %v", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("[NOTIFY] Failed to build Slack request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[NOTIFY] Slack notification failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[NOTIFY] Slack notification failed: status %d", resp.StatusCode)
		return false
	}
	log.Printf("[NOTIFY] Slack notification sent for %d leads", len(leads))
	return true
}

type message struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks"`
}

type block struct {
	Type     string  `json:"type"`
	Text     *text   `json:"text,omitempty"`
	Elements []*text `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildMessage(leads []*types.Lead, stats pipeline.Stats) message {
	title := fmt.Sprintf("🎯 %d New Leads Processed", len(leads))
	blocks := []block{{Type: "header", Text: &text{Type: "plain_text", Text: title}}}

	for i, l := range leads {
		if i == slackPreview {
			break
		}
		tags := "—"
		if len(l.Tags) > 0 {
			tags = strings.Join(l.Tags, ", ")
		}
		section := fmt.Sprintf("*%s* (%s)\n_%s_\nTags: `%s`", l.Name, l.Company, l.Summary, tags)
		blocks = append(blocks, block{Type: "section", Text: &text{Type: "mrkdwn", Text: section}})
	}

	blocks = append(blocks,
		block{Type: "divider"},
		block{Type: "context", Elements: []*text{{Type: "mrkdwn", Text: stats.String()}}},
	)
	return message{Text: title, Blocks: blocks}
}

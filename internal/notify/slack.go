package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/i474232898/airport-weather-alerts/internal/alert"
)

// SlackNotifier delivers messages through a Slack incoming webhook using
// Slack's Markdown-style formatting.
type SlackNotifier struct {
	client     *http.Client
	webhookURL string
}

func NewSlackNotifier(client *http.Client, webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		client:     client,
		webhookURL: webhookURL,
	}
}

func (s *SlackNotifier) Name() string {
	return "slack"
}

func (s *SlackNotifier) Syntax() alert.Syntax {
	return alert.SyntaxMarkdown
}

func (s *SlackNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

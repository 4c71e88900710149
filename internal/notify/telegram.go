// Package notify implements the outbound notification channels. Each
// channel accepts one pre-formatted text blob; there is no channel-level
// retry and a failing channel never blocks the others.
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

// TelegramNotifier delivers messages through the Telegram Bot API using
// HTML parse mode.
type TelegramNotifier struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

func NewTelegramNotifier(client *http.Client, token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		client:  client,
		baseURL: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
	}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) Syntax() alert.Syntax {
	return alert.SyntaxHTML
}

func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

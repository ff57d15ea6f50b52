package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramService relays notification text through the Bot API. The bot token
// stays server-side; it is read from panel settings, never shipped to the UI.
type TelegramService struct {
	baseURL string
	client  *http.Client
}

// NewTelegramService constructs a TelegramService.
func NewTelegramService(client *http.Client) *TelegramService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TelegramService{baseURL: telegramAPIBase, client: client}
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts one message to the configured chat.
func (t *TelegramService) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	if strings.TrimSpace(botToken) == "" || strings.TrimSpace(chatID) == "" {
		return fmt.Errorf("telegram not configured (bot token/chat id)")
	}

	payload, err := json.Marshal(telegramSendRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode telegram payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr telegramResponse
	if err := json.Unmarshal(body, &tr); err == nil && !tr.OK {
		return fmt.Errorf("telegram rejected message: %s", tr.Description)
	}
	return nil
}

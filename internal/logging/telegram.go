package logging

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"inventory-sync/internal/config"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

type Creds struct {
	Creds config.TelegramBotConfig
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

const (
	iconInfo    = "ℹ️"
	iconError   = "❌"
	iconWarning = "⚠️"
	iconSuccess = "✅"
)

// NewLogger returns a Telegram-backed logger. With missing credentials the
// returned service still works but only prints to stdout.
func NewLogger(cfg config.TelegramBotConfig) LoggerService {
	if cfg.ChatId == "" || cfg.Token == "" {
		fmt.Println("[WARNING]: telegram credentials missing")
		return (*Creds)(nil)
	}
	return &Creds{Creds: cfg}
}

func (c *Creds) Log(value string) {
	if c == nil {
		fmt.Println("[INFO]:", value)
		return
	}
	_ = c.sendRequest(formatMessage(iconInfo, "INFO", value))
}

func (c *Creds) LogError(value string, err error) {
	if err != nil {
		value = value + ": " + err.Error()
	}
	if c == nil {
		fmt.Println("[ERROR]:", value)
		return
	}
	_ = c.sendRequest(formatMessage(iconError, "ERROR", value))
}

func (c *Creds) LogWarning(value string) {
	if c == nil {
		fmt.Println("[WARNING]:", value)
		return
	}
	_ = c.sendRequest(formatMessage(iconWarning, "WARNING", value))
}

func (c *Creds) LogSuccess(value string) {
	if c == nil {
		fmt.Println("[SUCCESS]:", value)
		return
	}
	_ = c.sendRequest(formatMessage(iconSuccess, "SUCCESS", value))
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}

func (c *Creds) sendRequest(value string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.Creds.Token)

	reqBody := telegramRequest{
		ChatId: c.Creds.ChatId,
		Text:   value,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send failed: %s: %s", resp.Status, string(respBody))
	}

	return nil
}

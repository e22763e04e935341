package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Telegram 通知器：推送决策摘要，并轮询收件人的回复。
type Telegram struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Client   *http.Client

	offset int64
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		BotToken: botToken,
		ChatID:   chatID,
		BaseURL:  "https://api.telegram.org",
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SendText 发送文本消息（带最多 3 次重试）。
func (t *Telegram) SendText(ctx context.Context, text string) error {
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("telegram channel is not configured")
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	payload := map[string]any{
		"chat_id": t.ChatID,
		"text":    text,
	}
	body, _ := json.Marshal(payload)

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := t.Client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("telegram status=%d", resp.StatusCode)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return lastErr
}

// PollReplies fetches updates past the stored offset and returns the text
// of messages sent by the configured chat. The offset advances even for
// messages from other chats so they are never re-read.
func (t *Telegram) PollReplies(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d", t.BaseURL, t.BotToken, t.offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("telegram getUpdates status=%d", resp.StatusCode)
	}
	if !gjson.GetBytes(body, "ok").Bool() {
		return nil, fmt.Errorf("telegram getUpdates not ok: %s", gjson.GetBytes(body, "description").String())
	}

	var texts []string
	for _, upd := range gjson.GetBytes(body, "result").Array() {
		if id := upd.Get("update_id").Int(); id >= t.offset {
			t.offset = id + 1
		}
		if chat := upd.Get("message.chat.id").String(); chat != "" && chat != t.ChatID {
			continue
		}
		if text := upd.Get("message.text").String(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultDiscordAPI  = "https://discord.com/api/v10"
	discordSendTimeout = 10 * time.Second
)

// Discord posts messages to channels through the Discord REST API using
// a bot token. One POST per message, no retries; a failed send is
// retried naturally by the next alert tick.
type Discord struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewDiscord(token string) *Discord {
	return &Discord{
		token:   token,
		baseURL: defaultDiscordAPI,
		client:  &http.Client{Timeout: discordSendTimeout},
	}
}

type createMessage struct {
	Content string `json:"content"`
}

func (d *Discord) Notify(ctx context.Context, channelID, content string) error {
	body, err := json.Marshal(createMessage{Content: content})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", d.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		// Channel deleted or bot kicked; the subscription is dead.
		return fmt.Errorf("channel %s: %w", channelID, ErrUnreachable)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, string(b))
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord sends notifications as embeds via a Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
}

// NewDiscord creates a Discord webhook notifier.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Send(ctx context.Context, n *Notification) error {
	body := n.Body
	if n.UserID != 0 {
		body = fmt.Sprintf("<@%d> %s", n.UserID, body)
	}

	var fields []map[string]any
	for _, f := range n.Fields {
		fields = append(fields, map[string]any{
			"name":   f.Name,
			"value":  f.Value,
			"inline": true,
		})
	}

	embed := map[string]any{
		"title":       n.Title,
		"description": body,
		"color":       0x5865F2,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	if len(fields) > 0 {
		embed["fields"] = fields
	}

	payload := map[string]any{
		"embeds": []map[string]any{embed},
	}
	if n.UserID != 0 {
		payload["allowed_mentions"] = map[string]any{
			"users": []string{fmt.Sprintf("%d", n.UserID)},
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}
	return nil
}

package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/tidwall/gjson"
)

// WhatsAppClient posts text messages to the WhatsApp Toolbox webhook.
// Sends are best-effort: there is no retry and failures come back as false.
type WhatsAppClient struct {
	WebhookURL string
	APIKey     string
	HTTP       *http.Client
}

func NewWhatsAppClient(webhookURL, apiKey string) *WhatsAppClient {
	return &WhatsAppClient{
		WebhookURL: webhookURL,
		APIKey:     apiKey,
		HTTP:       &http.Client{},
	}
}

type whatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (c *WhatsAppClient) Send(ctx context.Context, phone, message string) bool {
	digits := NormalizePhone(phone)
	if digits == "" {
		log.Printf("⚠️  WhatsApp skipped: empty phone number")
		return false
	}
	if c.WebhookURL == "" {
		log.Printf("[MOCK WHATSAPP] to:%s message:%q", digits, message)
		return false
	}

	body, err := json.Marshal(whatsAppPayload{Phone: digits, Message: message})
	if err != nil {
		log.Printf("❌ WhatsApp payload error: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ WhatsApp request error: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp send to %s failed: %v", digits, err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("❌ WhatsApp send to %s failed: status %d body %s", digits, resp.StatusCode, string(respBody))
		return false
	}
	if ok := gjson.GetBytes(respBody, "success"); ok.Exists() && !ok.Bool() {
		log.Printf("❌ WhatsApp send to %s rejected: %s", digits, gjson.GetBytes(respBody, "message").String())
		return false
	}

	log.Printf("✅ WhatsApp sent to %s", digits)
	return true
}

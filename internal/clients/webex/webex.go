package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Default timeout for Webex API requests
	defaultRequestTimeout = 5 * time.Second
	// Maximum response body size to read for error logging
	maxResponseBodySize = 1024

	// Registrations created by this service watch message-created events.
	webhookResource = "messages"
	webhookEvent    = "created"
)

// Client talks to the Webex REST API.
type Client struct {
	apiURL     string
	token      string
	logger     zerolog.Logger
	httpClient *http.Client
}

// New creates a new Client. apiURL is the versioned API base, e.g.
// "https://webexapis.com/v1".
func New(apiURL, token string, logger zerolog.Logger) (*Client, error) {
	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webex API URL: %w", err)
	}
	return &Client{
		apiURL: strings.TrimSuffix(parsedURL.String(), "/"),
		token:  token,
		logger: logger,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}, nil
}

// GetMessageText fetches the full body of a message by its ID. Webhook events
// carry only the message ID, never the text itself.
func (c *Client) GetMessageText(ctx context.Context, messageID string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return "", fmt.Errorf("message fetch returned status code %d: %s", resp.StatusCode, string(respBody))
	}

	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return "", fmt.Errorf("failed to decode message response: %w", err)
	}
	return msg.Text, nil
}

// SendMessage posts a plain-text reply into a room.
func (c *Client) SendMessage(ctx context.Context, roomID, text string) error {
	body, err := json.Marshal(sendMessageRequest{RoomID: roomID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/messages", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return fmt.Errorf("message send returned status code %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// EnsureWebhookRegistered creates a message-created webhook registration
// pointing at targetURL unless one with the same name already exists. The
// name is the only idempotency key; matching is an exact linear scan, which
// is fine at the single-digit registration counts Webex bots carry.
func (c *Client) EnsureWebhookRegistered(ctx context.Context, name, targetURL string) error {
	hooks, err := c.listWebhooks(ctx)
	if err != nil {
		return err
	}

	for _, hook := range hooks {
		if hook.Name == name {
			c.logger.Info().Str("webhook", name).Msg("Webhook already exists, skipping creation")
			return nil
		}
	}

	if err := c.createWebhook(ctx, name, targetURL); err != nil {
		return err
	}
	c.logger.Info().Str("webhook", name).Str("targetUrl", targetURL).Msg("Webhook created")
	return nil
}

func (c *Client) listWebhooks(ctx context.Context) ([]Webhook, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/webhooks", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return nil, fmt.Errorf("webhook list returned status code %d: %s", resp.StatusCode, string(respBody))
	}

	var list webhookList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode webhook list: %w", err)
	}
	return list.Items, nil
}

func (c *Client) createWebhook(ctx context.Context, name, targetURL string) error {
	body, err := json.Marshal(createWebhookRequest{
		Name:      name,
		TargetURL: targetURL,
		Resource:  webhookResource,
		Event:     webhookEvent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook creation request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/webhooks", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return fmt.Errorf("webhook creation returned status code %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create webex request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

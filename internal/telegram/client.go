package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.telegram.org"

// longPollSeconds is the getUpdates server-side wait. The HTTP timeout must
// exceed it.
const longPollSeconds = 30

// API is the Bot API surface the poller depends on.
type API interface {
	GetMe(ctx context.Context) (*User, error)
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Client talks to the Telegram Bot API.
type Client struct {
	http *resty.Client
}

// Ensure Client implements API.
var _ API = (*Client)(nil)

// NewClient creates a Bot API client for the token.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL)
}

// NewClientWithBaseURL allows pointing the client at a test server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL + "/bot" + token)
	client.SetTimeout((longPollSeconds + 15) * time.Second)

	return &Client{http: client}
}

// GetMe verifies the token and returns the bot identity.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var resp userResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetResult(&resp).
		SetError(&resp).
		Get("/getMe")
	if err != nil {
		return nil, fmt.Errorf("getMe: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("getMe: status %s: %s", httpResp.Status(), resp.Description)
	}
	return &resp.Result, nil
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var resp updatesResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":          strconv.FormatInt(offset, 10),
			"timeout":         strconv.Itoa(longPollSeconds),
			"allowed_updates": `["message"]`,
		}).
		SetResult(&resp).
		SetError(&resp).
		Get("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("getUpdates: status %s: %s", httpResp.Status(), resp.Description)
	}
	return resp.Result, nil
}

// SendMessage relays a reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	var resp messageResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id": chatID,
			"text":    text,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("sendMessage: status %s: %s", httpResp.Status(), resp.Description)
	}
	return nil
}

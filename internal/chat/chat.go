// Package chat forwards coaching questions to the Gemini generateContent API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/playmatatu/tactics/internal/config"
	keys "github.com/playmatatu/tactics/internal/redis"
	"github.com/redis/go-redis/v9"
)

const NoResponse = "No response"

var (
	ErrChatDisabled = errors.New("chat assistant not configured")
	ErrEmptyMessage = errors.New("message is required")
	ErrRateLimited  = errors.New("too many chat requests")
)

// UpstreamError is a non-2xx answer from Gemini.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini returned %d: %s", e.Status, e.Message)
}

// Message is one chat turn as returned to the browser.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls Gemini with either the server key or a key supplied by the caller.
type Client struct {
	baseURL          string
	apiKey           string
	model            string
	rdb              *redis.Client
	httpClient       *http.Client
	rateLimitSeconds int
}

// NewClient builds a client from config. rdb may be nil, which disables rate limiting.
func NewClient(cfg *config.Config, rdb *redis.Client) *Client {
	return &Client{
		baseURL:          strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:           cfg.GeminiAPIKey,
		model:            cfg.GeminiModel,
		rdb:              rdb,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		rateLimitSeconds: cfg.ChatRateLimitSeconds,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Ask sends message and returns the assistant reply. A non-empty clientKey is used
// instead of the server key. clientID scopes the rate limit.
func (c *Client) Ask(ctx context.Context, clientID, message, clientKey string) (Message, error) {
	if c == nil {
		return Message{}, ErrChatDisabled
	}
	key := clientKey
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return Message{}, ErrChatDisabled
	}
	if strings.TrimSpace(message) == "" {
		return Message{}, ErrEmptyMessage
	}

	if c.rdb != nil && c.rateLimitSeconds > 0 && clientID != "" {
		ok, err := c.rdb.SetNX(ctx, keys.ChatRateKey(clientID), "1", time.Duration(c.rateLimitSeconds)*time.Second).Result()
		if err == nil && !ok {
			return Message{}, ErrRateLimited
		}
		// ignore Redis errors and proceed
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: message}}}}})
	if err != nil {
		return Message{}, err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Message{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var parsed generateResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Failed to get response from Gemini"
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		log.Printf("[CHAT] gemini error %d: %s", resp.StatusCode, msg)
		return Message{}, &UpstreamError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return Message{}, fmt.Errorf("decode gemini response: %w", decodeErr)
	}

	reply := NoResponse
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		if text := parsed.Candidates[0].Content.Parts[0].Text; text != "" {
			reply = text
		}
	}
	return Message{Role: "assistant", Content: reply}, nil
}

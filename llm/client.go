package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 4 << 20

// ErrResponseTooLarge marks a planner reply longer than the client accepts.
var ErrResponseTooLarge = errors.New("response too large")

// Client talks to the remote planner service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateSchedule posts a schedule request and returns the raw reply body.
func (c *Client) GenerateSchedule(ctx context.Context, req types.ScheduleRequest) ([]byte, error) {
	return c.post(ctx, config.EndpointSchedule, req)
}

func (c *Client) Chat(ctx context.Context, req types.ChatRequest) ([]byte, error) {
	return c.post(ctx, config.EndpointChat, req)
}

// Ping checks that the planner is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+config.EndpointPing, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = c.do(req, "ping")
	return err
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, strings.TrimPrefix(path, "/"))
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &types.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	config.Logger.WithFields(logrus.Fields{
		"op":       op,
		"status":   resp.StatusCode,
		"bytes":    len(data),
		"duration": time.Since(started).String(),
	}).Debug("Planner call finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview(data)),
		}
	}
	if len(data) > maxResponseBytes {
		return nil, &types.TransportError{
			Op:  op,
			Err: fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBytes),
		}
	}
	return data, nil
}

func preview(data []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(data))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

package client

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

// GatewayClient posts composed messages to the messaging gateway's
// /send endpoint. The base URL is fixed at construction; there is no
// retry and no request deduplication.
type GatewayClient struct {
	baseURL string
	client  *http.Client
}

func NewGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// TransportError is a failed gateway exchange: a non-2xx status with
// whatever body the gateway returned. The body carries no defined
// schema and is kept opaque.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway request failed: %v", e.Err)
	}
	return fmt.Sprintf("unexpected status code: %d body=%q", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

type sendRequest struct {
	Channel string `json:"channel"`
	To      any    `json:"to"`
	Message any    `json:"message"`
}

// Send posts {channel, to, message} and returns the raw 2xx response
// body. The channel is lowercased before transmission. `to` is either
// a recipient list or a single recipient string, passed through as-is.
func (c *GatewayClient) Send(ctx context.Context, channel string, to any, message any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(sendRequest{
		Channel: strings.ToLower(channel),
		To:      to,
		Message: message,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}

// Copyright 2026 Depbatch Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slack posts messages to Slack via chat.postMessage. It implements
// the alerts.Notifier handoff contract.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	deperrors "github.com/depbatch/depbatch/internal/errors"
)

const defaultEndpoint = "https://slack.com/api/chat.postMessage"

// Client posts messages to Slack channels.
type Client struct {
	token    string
	endpoint string
	http     *http.Client
}

// NewClient creates a Slack client with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:    token,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint, used in tests.
func NewClientWithEndpoint(token, endpoint string) *Client {
	c := NewClient(token)
	c.endpoint = endpoint
	return c
}

// Post sends text to a channel. Implements alerts.Notifier.
func (c *Client) Post(ctx context.Context, channel, text string) error {
	body, err := json.Marshal(map[string]string{
		"channel": channel,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack: %w: %v", deperrors.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	// Slack reports API-level failures in the body with HTTP 200.
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding slack response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("slack rejected message: %s", result.Error)
	}

	return nil
}

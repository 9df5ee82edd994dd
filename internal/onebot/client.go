// Package onebot provides a client for the OneBot v11 HTTP API and types for
// its event push payloads.
package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Group is one entry of the get_group_list response.
type Group struct {
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
}

// Client calls a OneBot v11 implementation over its HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client (used by tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets a logger for per-call debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API at baseURL. accessToken may be empty
// when the implementation does not require one.
func NewClient(baseURL, accessToken string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      accessToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the OneBot response envelope.
type apiResponse struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call posts params to the named action and unmarshals the data payload into
// out when out is non-nil. Each call gets a short correlation id that appears
// in the log lines for it.
func (c *Client) call(ctx context.Context, action string, params interface{}, out interface{}) error {
	callID := uuid.New().String()[:8]
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%s: marshal params: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("api call", zap.String("action", action), zap.String("call_id", callID))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s [%s]: request failed: %w", action, callID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s [%s]: api returned %d: %s", action, callID, resp.StatusCode, string(b))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s [%s]: decode response: %w", action, callID, err)
	}
	if envelope.Status == "failed" || envelope.Retcode != 0 {
		return fmt.Errorf("%s [%s]: api error retcode=%d status=%s message=%s",
			action, callID, envelope.Retcode, envelope.Status, envelope.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%s [%s]: decode data: %w", action, callID, err)
		}
	}
	return nil
}

// GetGroupMemberList fetches the raw member roster of a group. Entries are
// returned undecoded so heterogeneous member fields survive intact.
func (c *Client) GetGroupMemberList(ctx context.Context, groupID int64) ([]json.RawMessage, error) {
	params := map[string]interface{}{"group_id": groupID}
	var members []json.RawMessage
	if err := c.call(ctx, "get_group_member_list", params, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetGroupList fetches all groups the bot account has joined.
func (c *Client) GetGroupList(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.call(ctx, "get_group_list", struct{}{}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UploadGroupFile uploads a file into a group's shared files. fileURI must be
// in a form the implementation accepts, e.g. "base64://<data>".
func (c *Client) UploadGroupFile(ctx context.Context, groupID int64, fileURI, name string) error {
	params := map[string]interface{}{
		"group_id": groupID,
		"file":     fileURI,
		"name":     name,
	}
	return c.call(ctx, "upload_group_file", params, nil)
}

// UploadPrivateFile sends a file to a user in a private chat.
func (c *Client) UploadPrivateFile(ctx context.Context, userID int64, fileURI, name string) error {
	params := map[string]interface{}{
		"user_id": userID,
		"file":    fileURI,
		"name":    name,
	}
	return c.call(ctx, "upload_private_file", params, nil)
}

// SendGroupMessage sends a plain-text message to a group.
func (c *Client) SendGroupMessage(ctx context.Context, groupID int64, text string) error {
	params := map[string]interface{}{
		"group_id": groupID,
		"message":  text,
	}
	return c.call(ctx, "send_group_msg", params, nil)
}

// SendPrivateMessage sends a plain-text message to a user.
func (c *Client) SendPrivateMessage(ctx context.Context, userID int64, text string) error {
	params := map[string]interface{}{
		"user_id": userID,
		"message": text,
	}
	return c.call(ctx, "send_private_msg", params, nil)
}

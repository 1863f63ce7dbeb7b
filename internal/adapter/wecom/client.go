package wecom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/rain-alert/internal/domain"
)

// Client sends application text messages through the WeCom (企业微信) API.
type Client struct {
	corpID     string
	corpSecret string
	agentID    int
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a WeCom client. baseURL is the API origin, e.g.
// https://qyapi.weixin.qq.com.
func NewClient(corpID, corpSecret string, agentID int, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		corpID:     corpID,
		corpSecret: corpSecret,
		agentID:    agentID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Send broadcasts content to @all. It fetches a fresh access token first and
// makes no further call when none is returned. Empty content is not sent.
func (c *Client) Send(ctx context.Context, content string) error {
	if content == "" {
		return nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		c.logger.Error("access token request failed", "error", err)
		return err
	}

	return c.sendText(ctx, token, content)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	params := url.Values{
		"corpid":     {c.corpID},
		"corpsecret": {c.corpSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cgi-bin/gettoken?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", domain.ErrTransport, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: errcode=%d errmsg=%s", domain.ErrAuth, tr.ErrCode, tr.ErrMsg)
	}
	return tr.AccessToken, nil
}

func (c *Client) sendText(ctx context.Context, token, content string) error {
	msg := textMessage{
		ToUser:  "@all",
		MsgType: "text",
		AgentID: c.agentID,
		Text:    textContent{Content: content},
		Safe:    0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	u := c.baseURL + "/cgi-bin/message/send?" + url.Values{"access_token": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return err
	}

	var sr sendResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return fmt.Errorf("%w: decode send response: %w", domain.ErrTransport, err)
	}
	if sr.ErrCode == nil || *sr.ErrCode != 0 {
		code := -1
		if sr.ErrCode != nil {
			code = *sr.ErrCode
		}
		c.logger.Error("message send failed", "errcode", code, "response", string(raw))
		return &domain.DeliveryError{Code: code, Message: sr.ErrMsg, Raw: string(raw)}
	}

	c.logger.Info("message sent", "msgid", sr.MsgID)
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: wecom API error: status %d: %s", domain.ErrTransport, resp.StatusCode, raw)
	}
	return raw, nil
}

// WeCom API types.

type tokenResponse struct {
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type textContent struct {
	Content string `json:"content"`
}

type textMessage struct {
	ToUser  string      `json:"touser"`
	MsgType string      `json:"msgtype"`
	AgentID int         `json:"agentid"`
	Text    textContent `json:"text"`
	Safe    int         `json:"safe"`
}

type sendResponse struct {
	ErrCode *int   `json:"errcode"` // absent is treated as failure
	ErrMsg  string `json:"errmsg"`
	MsgID   string `json:"msgid"`
}

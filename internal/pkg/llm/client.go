package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"k8s.io/klog/v2"
)

// Client LLM 客户端（OpenAI 兼容的 chat/completions 接口）
type Client struct {
	httpClient *http.Client
}

// NewClient 创建新的 LLM 客户端
// 超时由每次调用的 CallOptions 控制，不在 http.Client 上设置
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// Complete 发送单轮补全请求并返回文本结果
// 瞬时失败（超时、429、5xx、网络错误）时最多重试 opts.Retries 次，
// 重试耗尽后返回最后一次错误
func (c *Client) Complete(ctx context.Context, userPrompt string, opts CallOptions) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if opts.SystemMessage != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: opts.SystemMessage})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: userPrompt})

	reqBody := ChatRequest{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	attempts := opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		klog.V(6).Infof("Complete: model=%s attempt=%d/%d", opts.Model, attempt, attempts)
		content, err := c.sendRequest(ctx, reqBody, opts)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !IsTransient(err) {
			klog.V(6).Infof("Complete: fatal error, not retrying: %v", err)
			return "", err
		}
		if ctx.Err() != nil {
			return "", lastErr
		}
		klog.Warningf("Complete: transient failure on attempt %d/%d: %v", attempt, attempts, err)
	}
	return "", lastErr
}

// sendRequest 发送 HTTP 请求到 LLM API
func (c *Client) sendRequest(ctx context.Context, reqBody ChatRequest, opts CallOptions) (string, error) {
	url := opts.BaseURL + "/chat/completions"
	klog.V(6).Infof("发送 LLM 请求: url=%s, model=%s", url, reqBody.Model)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+opts.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: chatResp.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// IsTransient 判断错误是否为瞬时失败（可重试）
// 超时、传输层错误（连接拒绝、DNS 等）、429 与 5xx 视为瞬时；
// 其余 API 错误、响应体解析失败、choices 为空均视为致命，不消耗重试次数
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

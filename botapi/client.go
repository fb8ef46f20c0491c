// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package botapi 呼叫後端的 bot 建立／更新 REST 介面。
package botapi

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zintix-labs/cyclelab/spec"
)

// FallbackMessage 後端沒有給訊息時使用
const FallbackMessage = "bot service request failed"

// Response 後端成功回應
type Response struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// Error 後端或網路失敗。Message 盡量保留後端原文。
type Error struct {
	Status  int    // 0 表示沒有拿到 HTTP 回應
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.Cause }

// Temporary 傳輸錯誤與 502/503/504 可以重試
func (e *Error) Temporary() bool {
	if e.Status == 0 {
		return !errors.Is(e.Cause, context.Canceled) && !errors.Is(e.Cause, context.DeadlineExceeded)
	}
	switch e.Status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// NotSent 請求確定沒有送到後端（連線建立前就失敗：DNS、撥號、連線被拒）。
// 非冪等的 POST 只在這種情況重試。
func (e *Error) NotSent() bool {
	if e.Status != 0 || e.Cause == nil {
		return false
	}
	if errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(e.Cause, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(e.Cause, &opErr) && opErr.Op == "dial"
}

// Client 後端介面，create 與 edit 共用同一份 payload
type Client interface {
	CreateBot(ctx context.Context, p spec.BotPayload) (*Response, error)
	UpdateBot(ctx context.Context, id string, p spec.BotPayload) (*Response, error)
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retry   *Retry // nil 表示不重試

	Transport http.RoundTripper // nil 用 http.DefaultTransport
}

type HTTPClient struct {
	base  string
	token string
	http  *http.Client
	retry *Retry
}

func NewHTTPClient(opt Options) (*HTTPClient, error) {
	u, err := url.Parse(opt.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid bot api base url %q", opt.BaseURL)
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	return &HTTPClient{
		base:  strings.TrimRight(opt.BaseURL, "/"),
		token: opt.Token,
		http:  &http.Client{Timeout: opt.Timeout, Transport: opt.Transport},
		retry: opt.Retry,
	}, nil
}

func (c *HTTPClient) CreateBot(ctx context.Context, p spec.BotPayload) (*Response, error) {
	return c.send(ctx, http.MethodPost, c.base+"/bots", p, notSent)
}

func (c *HTTPClient) UpdateBot(ctx context.Context, id string, p spec.BotPayload) (*Response, error) {
	if id == "" {
		return nil, &Error{Message: "bot id is required"}
	}
	return c.send(ctx, http.MethodPut, c.base+"/bots/"+url.PathEscape(id), p, retryable)
}

// send 送出 payload；again 決定哪些錯誤可以重送。
// POST 建立 bot 不是冪等的，後端可能已經建好才回 502/504，所以只在沒送出時重試。
func (c *HTTPClient) send(ctx context.Context, method, target string, p spec.BotPayload, again func(error) bool) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, &Error{Message: "encode bot payload", Cause: err}
	}
	var out *Response
	call := func() error {
		var err error
		out, err = c.do(ctx, method, target, body)
		return err
	}
	if c.retry == nil {
		err = call()
	} else {
		err = c.retry.DoIf(ctx, call, again)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, target string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: FallbackMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: FallbackMessage, Cause: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Message: backendMessage(raw)}
	}
	out := &Response{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &Error{Status: resp.StatusCode, Message: "decode bot service response", Cause: err}
		}
	}
	return out, nil
}

// backendMessage 取出後端錯誤訊息，依序看 JSON 的 message / error / detail。
// detail 可以是字串，也可以是 [{"msg": ...}] 形式的驗證錯誤列表。
// JSON 裡沒有認得的鍵時回傳原始本體，本體為空或是 {} 才用預設訊息。
func backendMessage(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err == nil {
		if len(body) == 0 {
			return FallbackMessage
		}
		for _, key := range []string{"message", "error", "detail"} {
			if msg := messageOf(body[key]); msg != "" {
				return msg
			}
		}
	}
	if text != "" {
		return text
	}
	return FallbackMessage
}

// messageOf 解讀單一欄位：字串、{"message": ...}，或 [{"msg": ...}] 列表
func messageOf(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(v, &obj); err == nil {
		return strings.TrimSpace(cmp.Or(obj.Message, obj.Msg))
	}
	var items []struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(v, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if m := strings.TrimSpace(cmp.Or(it.Msg, it.Message)); m != "" {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, "; ")
}

var _ Client = (*HTTPClient)(nil)

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

package botapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/spec"
)

func payload() spec.BotPayload {
	return spec.BotPayload{
		Name: "bot-1", MinBetAmount: 1, MaxBetAmount: 100,
		WinsCount: 5, LossesCount: 3, DrawsCount: 2,
		WinsPercentage: 50, LossesPercentage: 30, DrawsPercentage: 20,
		CycleGames: 10, CreationMode: spec.CreationManual, ProfitStrategy: spec.StrategyBalanced,
	}
}

func newClient(t *testing.T, url string, retry *botapi.Retry) *botapi.HTTPClient {
	t.Helper()
	c, err := botapi.NewHTTPClient(botapi.Options{BaseURL: url + "/", Token: "secret", Retry: retry})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestCreateBotSendsContractFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bots" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("body not json: %v", err)
		}
		for _, k := range []string{"name", "min_bet_amount", "max_bet_amount", "wins_count", "losses_count",
			"draws_count", "wins_percentage", "losses_percentage", "draws_percentage", "cycle_games",
			"pause_between_cycles", "pause_on_draw", "creation_mode", "profit_strategy"} {
			if _, ok := body[k]; !ok {
				t.Errorf("missing field %q", k)
			}
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"b-42","message":"created"}`))
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, nil).CreateBot(context.Background(), payload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.ID != "b-42" || resp.Message != "created" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUpdateBotUsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/bots/b-42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"b-42"}`))
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL, nil).UpdateBot(context.Background(), "b-42", payload()); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestBackendMessageIsVerbatim(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"Bot name already taken"}`, "Bot name already taken"},
		{`{"error":"max_bet_amount too high"}`, "max_bet_amount too high"},
		{`{"detail":"Bot with this name already exists"}`, "Bot with this name already exists"},
		{`{"detail":[{"loc":["body","cycle_games"],"msg":"value too large"},{"msg":"name too short"}]}`, "value too large; name too short"},
		{`{"error":{"message":"quota exceeded"}}`, "quota exceeded"},
		{`{"reason":"duplicate"}`, `{"reason":"duplicate"}`},
		{`{}`, botapi.FallbackMessage},
		{``, botapi.FallbackMessage},
		{`upstream exploded`, "upstream exploded"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(tc.body))
		}))
		_, err := newClient(t, srv.URL, nil).CreateBot(context.Background(), payload())
		srv.Close()

		var be *botapi.Error
		if !errors.As(err, &be) {
			t.Fatalf("expected *botapi.Error, got %v", err)
		}
		if be.Message != tc.want || be.Status != http.StatusUnprocessableEntity {
			t.Fatalf("body %q: got %+v want message %q", tc.body, be, tc.want)
		}
	}
}

func TestRetryOnUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"b-42"}`))
	}))
	defer srv.Close()

	retry := &botapi.Retry{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	resp, err := newClient(t, srv.URL, retry).UpdateBot(context.Background(), "b-42", payload())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.ID != "b-42" || calls.Load() != 3 {
		t.Fatalf("resp=%+v calls=%d", resp, calls.Load())
	}
}

func TestCreateBotSentOnceOnGatewayError(t *testing.T) {
	for _, status := range []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"upstream timeout"}`))
		}))
		retry := &botapi.Retry{MaxAttempts: 5, InitialDelay: time.Millisecond}
		_, err := newClient(t, srv.URL, retry).CreateBot(context.Background(), payload())
		srv.Close()

		var be *botapi.Error
		if !errors.As(err, &be) || be.Status != status || be.Message != "upstream timeout" {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
		// 後端可能已經建好 bot，POST 不可以重送
		if calls.Load() != 1 {
			t.Fatalf("status %d: POST sent %d times", status, calls.Load())
		}
	}
}

// dialFailure 模擬連線建立前就失敗的傳輸層
type dialFailure struct {
	calls atomic.Int32
}

func (d *dialFailure) RoundTrip(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
}

func TestCreateBotRetriesWhenNotSent(t *testing.T) {
	rt := &dialFailure{}
	c, err := botapi.NewHTTPClient(botapi.Options{
		BaseURL:   "http://bots.invalid",
		Retry:     &botapi.Retry{MaxAttempts: 3, InitialDelay: time.Millisecond},
		Transport: rt,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.CreateBot(context.Background(), payload())
	var be *botapi.Error
	if !errors.As(err, &be) || be.Status != 0 || !be.NotSent() {
		t.Fatalf("unexpected error %v", err)
	}
	if rt.calls.Load() != 3 {
		t.Fatalf("dial failures should be retried, calls=%d", rt.calls.Load())
	}
}

func TestErrorNotSent(t *testing.T) {
	cases := []struct {
		err  *botapi.Error
		want bool
	}{
		{&botapi.Error{Cause: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, true},
		{&botapi.Error{Cause: &net.DNSError{Err: "no such host", Name: "bots.invalid"}}, true},
		{&botapi.Error{Cause: &net.OpError{Op: "read", Err: syscall.ECONNRESET}}, false},
		{&botapi.Error{Cause: context.DeadlineExceeded}, false},
		{&botapi.Error{Status: http.StatusBadGateway}, false},
	}
	for i, tc := range cases {
		if got := tc.err.NotSent(); got != tc.want {
			t.Fatalf("case %d: NotSent = %v want %v", i, got, tc.want)
		}
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	retry := &botapi.Retry{MaxAttempts: 5, InitialDelay: time.Millisecond}
	if _, err := newClient(t, srv.URL, retry).UpdateBot(context.Background(), "b-42", payload()); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx should not be retried, calls=%d", calls.Load())
	}
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	if _, err := botapi.NewHTTPClient(botapi.Options{BaseURL: "not a url"}); err == nil {
		t.Fatalf("expected error")
	}
}

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

package botapi

import (
	"context"
	"errors"
	"time"
)

// Retry 指數退避重試，每次延遲乘以 1.5，上限 MaxDelay。
// Do 只重試 (*Error).Temporary() 為 true 的錯誤；
// 非冪等的請求用 DoIf 自己給判斷（HTTPClient 的 POST 只重試 NotSent）。
type Retry struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func NewRetry(maxAttempts int, initialDelay time.Duration) *Retry {
	return &Retry{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     5 * time.Second,
	}
}

// Do 執行 fn，回傳最後一次的錯誤（保持原本型別，呼叫端仍可 errors.As 取得 *Error）
func (r *Retry) Do(ctx context.Context, fn func() error) error {
	return r.DoIf(ctx, fn, retryable)
}

// DoIf 同 Do，但只在 again(err) 為 true 時重試
func (r *Retry) DoIf(ctx context.Context, fn func() error, again func(error) bool) error {
	if again == nil {
		again = retryable
	}
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := r.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !again(lastErr) {
			return lastErr
		}
		// 最後一次不用等
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * 1.5)
		if r.MaxDelay > 0 && delay > r.MaxDelay {
			delay = r.MaxDelay
		}
	}
	return lastErr
}

func retryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Temporary()
}

func notSent(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.NotSent()
}

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

// Package app 提供應用程式生命週期管理（App），負責統一啟動與關閉多個 Component。
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 所有元件共用的優雅關閉期限
const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有註冊的 Component，收到 OS 信號或任一 Component 的 Run 返回時，協調優雅關閉。
// HTTP server 與 preset 快照排程都以 Component 身分交給同一個 App。
type App struct {
	comps   []Component
	timeout time.Duration
	signals []os.Signal
}

// New 建立一個新的 App 實例。
func New() *App {
	return &App{timeout: DefaultShutdownTimeout, signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

// NewWith 是 New 的語法糖，允許在建立時直接註冊多個 Component。
func NewWith(copms ...Component) *App {
	app := New()
	for _, c := range copms {
		app.Register(c)
	}
	return app
}

// Register 將一個 Component 註冊到 App 中；nil 直接忽略。
func (a *App) Register(c Component) {
	if c == nil {
		return
	}
	a.comps = append(a.comps, c)
}

// SetShutdownTimeout 調整關閉期限，<= 0 維持原值。
func (a *App) SetShutdownTimeout(td time.Duration) {
	if td > 0 {
		a.timeout = td
	}
}

// Run 並行啟動所有 Component，阻塞直到收到 SIGINT/SIGTERM 或任一 Component 的 Run 返回。
//   - 收到信號：關閉全部元件，回傳關閉過程的錯誤（通常為 nil）。
//   - Component 返回：關閉全部元件，回傳該元件的錯誤與關閉錯誤。
func (a *App) Run() error {
	if len(a.comps) == 0 {
		return nil
	}
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, a.signals...)
	defer signal.Stop(quit)

	select {
	case <-quit:
		return a.gracefulShutdown(a.timeout)
	case err := <-errCh:
		return errors.Join(err, a.gracefulShutdown(a.timeout))
	}
}

// gracefulShutdown 依註冊的反向順序呼叫 Shutdown，後註冊的背景元件先停，最後才是 server。
func (a *App) gracefulShutdown(td time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	var all []error
	for i := len(a.comps) - 1; i >= 0; i-- {
		if err := a.comps[i].Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

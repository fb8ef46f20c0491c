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

// Package store 定義持久化的最小抽象：以 key 存取一整筆 blob。
//
// Preset 清單整份以 JSON 陣列存在單一 key 下，所以這裡只需要 Get / Put，
// 不提供交易或鎖；多個寫入者之間採 last-write-wins。
package store

import (
	"context"
	"sync"

	"github.com/zintix-labs/cyclelab/errs"
)

// ErrNotFound 指定的 key 不存在
var ErrNotFound = errs.NewWarn("store: key not found")

// KV 以 key 存取整筆資料的持久化後端
type KV interface {
	// Get 取得 key 的內容，不存在時回傳 ErrNotFound。
	Get(ctx context.Context, key string) ([]byte, error)
	// Put 覆寫 key 的內容。
	Put(ctx context.Context, key string, val []byte) error
	// Close 釋放連線等資源。
	Close() error
}

// MemKV 記憶體實作，給測試與 memory driver 使用
type MemKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemKV) Put(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *MemKV) Close() error { return nil }

var _ KV = (*MemKV)(nil)

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

// Package sqlite 以 SQLite（modernc.org/sqlite，純 Go）實作 store.KV。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/store"

	_ "modernc.org/sqlite"
)

// KV 把每個 key 存成 kv_store 表中的一列
type KV struct {
	db *sql.DB
	mu sync.Mutex
}

// Open 開啟（或建立）資料庫並建立資料表。
func Open(ctx context.Context, path string) (*KV, error) {
	if path == "" {
		return nil, errs.NewFatal("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite")
	}
	// WAL：讀寫可並行（例如另一個程序在讀備份）
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "set WAL mode")
	}
	kv := &KV{db: db}
	if err := kv.migrate(ctx); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "migrate sqlite")
	}
	return kv, nil
}

func (k *KV) migrate(ctx context.Context) error {
	_, err := k.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "sqlite get")
	}
	return v, nil
}

func (k *KV) Put(ctx context.Context, key string, val []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, err := k.db.ExecContext(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, val, time.Now().UnixMilli())
	if err != nil {
		return errs.Wrap(err, "sqlite put")
	}
	return nil
}

func (k *KV) Close() error {
	return k.db.Close()
}

var _ store.KV = (*KV)(nil)

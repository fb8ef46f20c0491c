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

// Package pgstore 以 PostgreSQL（pgx 連線池）實作 store.KV。
package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/store"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type KV struct {
	pool *pgxpool.Pool
}

// Open 建立連線池、確認連線並建立資料表
func Open(ctx context.Context, dsn string) (*KV, error) {
	if dsn == "" {
		return nil, errs.NewFatal("postgres dsn is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.Wrap(err, "parse postgres dsn")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errs.Wrap(err, "create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(err, "postgres ping")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errs.Wrap(err, "migrate postgres")
	}
	return &KV{pool: pool}, nil
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := k.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "postgres get")
	}
	return v, nil
}

func (k *KV) Put(ctx context.Context, key string, val []byte) error {
	_, err := k.pool.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, val)
	if err != nil {
		return errs.Wrap(err, "postgres put")
	}
	return nil
}

func (k *KV) Close() error {
	k.pool.Close()
	return nil
}

var _ store.KV = (*KV)(nil)

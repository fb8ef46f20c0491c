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

// Package redisstore 以 Redis 字串 key 實作 store.KV。
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/store"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

type KV struct {
	client *redis.Client
}

// Open 建立連線並 Ping 一次確認可用
func Open(ctx context.Context, opt Options) (*KV, error) {
	if opt.Addr == "" {
		return nil, errs.NewFatal("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(err, "redis ping")
	}
	return &KV{client: client}, nil
}

// New 包裝既有的 client（呼叫端負責連線設定）
func New(client *redis.Client) *KV {
	return &KV{client: client}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "redis get")
	}
	return v, nil
}

func (k *KV) Put(ctx context.Context, key string, val []byte) error {
	if err := k.client.Set(ctx, key, val, 0).Err(); err != nil {
		return errs.Wrap(err, "redis set")
	}
	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}

var _ store.KV = (*KV)(nil)

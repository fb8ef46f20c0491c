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

package main

import (
	"context"

	"github.com/zintix-labs/cyclelab/config"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/store"
	"github.com/zintix-labs/cyclelab/store/pgstore"
	"github.com/zintix-labs/cyclelab/store/redisstore"
	"github.com/zintix-labs/cyclelab/store/sqlite"
)

// openStore 依 store.driver 開啟對應的 KV 後端
func openStore(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemKV(), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.Store.SQLitePath)
	case config.DriverRedis:
		return redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPass,
			DB:       cfg.Store.RedisDB,
		})
	case config.DriverPostgres:
		return pgstore.Open(ctx, cfg.Store.PostgresDSN)
	default:
		return nil, errs.Fatalf("unknown store driver %q", cfg.Store.Driver)
	}
}

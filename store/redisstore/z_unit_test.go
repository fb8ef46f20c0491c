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

package redisstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/cyclelab/store"
	"github.com/zintix-labs/cyclelab/store/redisstore"
)

// 需要外部 Redis：REDIS_TEST_URL=localhost:6379 go test ./store/redisstore
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test")
	}
	addr := os.Getenv("REDIS_TEST_URL")
	if addr == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_TEST_PASSWORD"),
		DB:       1,
	})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestRedisGetPut(t *testing.T) {
	ctx := context.Background()
	kv := redisstore.New(testClient(t))

	_, err := kv.Get(ctx, "bot_cycle_presets")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "bot_cycle_presets", []byte(`[]`)))
	got, err := kv.Get(ctx, "bot_cycle_presets")
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))
}

func TestRedisOpenRequiresAddr(t *testing.T) {
	_, err := redisstore.Open(context.Background(), redisstore.Options{})
	require.Error(t, err)
}

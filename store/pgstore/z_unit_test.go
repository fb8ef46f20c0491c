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

package pgstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/zintix-labs/cyclelab/store"
	"github.com/zintix-labs/cyclelab/store/pgstore"
)

// setupDSN 啟一個 postgres container，需要 docker
func setupDSN(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("cyclelab"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresGetPut(t *testing.T) {
	ctx := context.Background()
	kv, err := pgstore.Open(ctx, setupDSN(t))
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ctx, "bot_cycle_presets")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "bot_cycle_presets", []byte(`[{"name":"a"}]`)))
	require.NoError(t, kv.Put(ctx, "bot_cycle_presets", []byte(`[{"name":"b"}]`)))

	got, err := kv.Get(ctx, "bot_cycle_presets")
	require.NoError(t, err)
	require.Equal(t, `[{"name":"b"}]`, string(got))
}

func TestPostgresRequiresDSN(t *testing.T) {
	_, err := pgstore.Open(context.Background(), "")
	require.Error(t, err)
}

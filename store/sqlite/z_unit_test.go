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

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/cyclelab/store"
	"github.com/zintix-labs/cyclelab/store/sqlite"
)

func openTemp(t *testing.T) (*sqlite.KV, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cyclelab.db")
	kv, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	return kv, path
}

func TestSQLiteGetPut(t *testing.T) {
	ctx := context.Background()
	kv, _ := openTemp(t)
	defer kv.Close()

	_, err := kv.Get(ctx, "bot_cycle_presets")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "bot_cycle_presets", []byte(`[{"name":"a"}]`)))
	got, err := kv.Get(ctx, "bot_cycle_presets")
	require.NoError(t, err)
	require.JSONEq(t, `[{"name":"a"}]`, string(got))

	require.NoError(t, kv.Put(ctx, "bot_cycle_presets", []byte(`[]`)))
	got, err = kv.Get(ctx, "bot_cycle_presets")
	require.NoError(t, err)
	require.Equal(t, "[]", string(got))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	kv, path := openTemp(t)
	require.NoError(t, kv.Put(ctx, "k", []byte("v1")))
	require.NoError(t, kv.Close())

	again, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer again.Close()

	got, err := again.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v1", string(got))
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "")
	require.Error(t, err)
}

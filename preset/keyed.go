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

package preset

import (
	"context"
	"errors"
	"sync"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
	"github.com/zintix-labs/cyclelab/store"
)

// DefaultKey 全部 preset 存放的 key
const DefaultKey = "bot_cycle_presets"

// KeyedRepository 把整份清單當成一筆 JSON 陣列存在 store.KV 的單一 key 下。
// 每次寫入都是 read-modify-write；同一程序內以 mutex 序列化，跨程序則是 last-write-wins。
type KeyedRepository struct {
	kv  store.KV
	key string
	mu  sync.Mutex
}

func NewKeyed(kv store.KV, key string) *KeyedRepository {
	if key == "" {
		key = DefaultKey
	}
	return &KeyedRepository{kv: kv, key: key}
}

func (r *KeyedRepository) read(ctx context.Context) ([]spec.Preset, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "read presets")
	}
	return Decode(raw)
}

func (r *KeyedRepository) write(ctx context.Context, ps []spec.Preset) error {
	raw, err := Encode(ps)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, raw); err != nil {
		return errs.Wrap(err, "write presets")
	}
	return nil
}

func (r *KeyedRepository) Load(ctx context.Context, id string) (spec.Preset, error) {
	ps, err := r.read(ctx)
	if err != nil {
		return spec.Preset{}, err
	}
	i := indexOf(ps, id)
	if i < 0 {
		return spec.Preset{}, ErrNotFound
	}
	return ps[i], nil
}

func (r *KeyedRepository) Save(ctx context.Context, p spec.Preset) (spec.Preset, error) {
	p, err := Prepare(p)
	if err != nil {
		return p, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, err := r.read(ctx)
	if err != nil {
		return p, err
	}
	if indexOf(ps, p.ID) >= 0 {
		return p, ErrDuplicateKey
	}
	if err := r.write(ctx, append(ps, p)); err != nil {
		return p, err
	}
	return p, nil
}

func (r *KeyedRepository) List(ctx context.Context) ([]spec.Preset, error) {
	ps, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []spec.Preset{}
	}
	return ps, nil
}

func (r *KeyedRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, err := r.read(ctx)
	if err != nil {
		return err
	}
	i := indexOf(ps, id)
	if i < 0 {
		return ErrNotFound
	}
	return r.write(ctx, append(ps[:i], ps[i+1:]...))
}

var _ Repository = (*KeyedRepository)(nil)

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

// Package memory 提供不落地的 preset.Repository，給測試與單機試用。
package memory

import (
	"context"
	"sync"

	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/spec"
)

type Repository struct {
	mu    sync.RWMutex
	byID  map[string]spec.Preset
	order []string
}

func New(seed ...spec.Preset) *Repository {
	r := &Repository{byID: make(map[string]spec.Preset)}
	for _, p := range seed {
		_, _ = r.Save(context.Background(), p)
	}
	return r
}

func (r *Repository) Load(_ context.Context, id string) (spec.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return spec.Preset{}, preset.ErrNotFound
	}
	return p, nil
}

func (r *Repository) Save(_ context.Context, p spec.Preset) (spec.Preset, error) {
	p, err := preset.Prepare(p)
	if err != nil {
		return p, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return p, preset.ErrDuplicateKey
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

func (r *Repository) List(_ context.Context) ([]spec.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]spec.Preset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return preset.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ preset.Repository = (*Repository)(nil)

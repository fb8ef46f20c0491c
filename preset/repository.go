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

// Package preset 管理具名的 bot 參數組合。
//
// 沒有原地更新：要改一組 preset 請 Delete 後重新 Save。
package preset

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

var (
	ErrNotFound     = errs.NewWarn("preset not found")
	ErrDuplicateKey = errs.NewWarn("preset id already exists")
	ErrInvalidInput = errs.NewWarn("invalid preset")
)

// Repository preset 的持久化介面
type Repository interface {
	// Load 依 id 取得，不存在回傳 ErrNotFound
	Load(ctx context.Context, id string) (spec.Preset, error)
	// Save 新增一筆；id 為空時自動產生，已存在回傳 ErrDuplicateKey。回傳實際存入的 preset。
	Save(ctx context.Context, p spec.Preset) (spec.Preset, error)
	// List 依新增順序回傳全部
	List(ctx context.Context) ([]spec.Preset, error)
	// Delete 依 id 刪除，不存在回傳 ErrNotFound
	Delete(ctx context.Context, id string) error
}

// Prepare 是各實作 Save 前共用的正規化：trim 名稱、補 id。
func Prepare(p spec.Preset) (spec.Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.ID = strings.TrimSpace(p.ID)
	if p.Name == "" {
		return p, errs.Wrap(ErrInvalidInput, "preset name required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p, nil
}

// Encode 持久化格式：單一 JSON 陣列
func Encode(ps []spec.Preset) ([]byte, error) {
	if ps == nil {
		ps = []spec.Preset{}
	}
	raw, err := json.Marshal(ps)
	if err != nil {
		return nil, errs.Wrap(err, "encode presets")
	}
	return raw, nil
}

// Decode 空內容或 null 視為空清單
func Decode(raw []byte) ([]spec.Preset, error) {
	var ps []spec.Preset
	if len(raw) == 0 {
		return ps, nil
	}
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, errs.Wrap(err, "decode presets")
	}
	return ps, nil
}

func indexOf(ps []spec.Preset, id string) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}

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

// Package catalog 載入 preset 種子檔（YAML/JSON），在啟動時寫入 preset repository。
//
// 種子來源是一或多個「扁平」的 fs.FS（不允許子目錄），
// 檔名在所有來源間必須唯一，preset 名稱（不分大小寫）也必須唯一。
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate preset id")
	ErrDupName = errs.NewFatal("duplicate preset name")
)

// Entry 一筆種子與它的來源檔
type Entry struct {
	Preset spec.Preset
	File   string
}

type Catalog struct {
	byName map[string]Entry
	names  []string // 依檔名、檔內順序，用來穩定排序
	config *multiFS
}

// New 讀取並檢查所有來源中的種子檔
func New(src ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(src...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	c := &Catalog{
		byName: map[string]Entry{},
		names:  make([]string, 0, 16),
		config: multFS,
	}
	seenID := map[string]string{}
	for _, file := range multFS.Files() {
		ps, err := c.readFile(file)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			key := nameKey(p.Name)
			if key == "" {
				return nil, errs.NewFatal(fmt.Sprintf("preset name required in %s", file))
			}
			if prev, ok := c.byName[key]; ok {
				return nil, errs.WrapWithExtra(ErrDupName, "catalog", fmt.Sprintf("%q in %s and %s", p.Name, prev.File, file))
			}
			if p.ID != "" {
				if prev, ok := seenID[p.ID]; ok {
					return nil, errs.WrapWithExtra(ErrDupID, "catalog", fmt.Sprintf("%q in %s and %s", p.ID, prev, file))
				}
				seenID[p.ID] = file
			}
			p.Name = strings.TrimSpace(p.Name)
			c.byName[key] = Entry{Preset: p, File: file}
			c.names = append(c.names, key)
		}
	}
	return c, nil
}

func (c *Catalog) readFile(file string) ([]spec.Preset, error) {
	src, ok := c.config.GetFS(file)
	if !ok {
		return nil, errs.NewFatal(fmt.Sprintf("seed file not found: %s", file))
	}
	raw, err := fs.ReadFile(src, file)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return spec.GetPresetsByYAML(raw)
	case ".json":
		return spec.GetPresetsByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported seed format: %q", file))
	}
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[nameKey(name)]
	return e, ok
}

func (c *Catalog) Len() int {
	return len(c.names)
}

// All 依檔名與檔內順序回傳所有種子
func (c *Catalog) All() []spec.Preset {
	out := make([]spec.Preset, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n].Preset)
	}
	return out
}

// Seed 把 repo 裡還沒有的種子（依名稱比對）寫進去，可以重複呼叫。
// check 非 nil 時會先檢查每一筆，任何一筆不合法就整批不寫。回傳實際新增的筆數。
func (c *Catalog) Seed(ctx context.Context, repo preset.Repository, check func(spec.Preset) error) (int, error) {
	if check != nil {
		for _, n := range c.names {
			e := c.byName[n]
			if err := check(e.Preset); err != nil {
				return 0, errs.WrapWithExtra(err, "invalid seed preset", fmt.Sprintf("%q in %s", e.Preset.Name, e.File))
			}
		}
	}
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "list presets before seeding")
	}
	have := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		have[nameKey(p.Name)] = struct{}{}
	}
	added := 0
	for _, n := range c.names {
		if _, ok := have[n]; ok {
			continue
		}
		if _, err := repo.Save(ctx, c.byName[n].Preset); err != nil {
			return added, errs.Wrap(err, "seed preset")
		}
		added++
	}
	return added, nil
}

// Sources 回傳唯讀的來源清單
func (c *Catalog) Sources() []fs.FS {
	return c.config.Sources()
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 16),
	}

	// 一開始就建好索引並檢查重複檔名
	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// 種子目錄必須是扁平的，只允許根目錄 "."
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("seed FS must be flat (no subdirectories): %q", path))
			}
			if strings.Contains(path, "/") {
				return errs.NewFatal(fmt.Sprintf("seed FS must be flat (no subdirectories): %q", path))
			}
			if strings.HasPrefix(path, ".") {
				return nil
			}
			// 只索引 yaml/json，其他檔案忽略（例如 embed.go）
			lower := strings.ToLower(path)
			if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate seed file %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}

// Files 依檔名排序
func (m *multiFS) Files() []string {
	out := make([]string, 0, len(m.index))
	for name := range m.index {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *multiFS) Sources() []fs.FS {
	if m == nil || len(m.src) == 0 {
		return nil
	}
	return append([]fs.FS(nil), m.src...)
}

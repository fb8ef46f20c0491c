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

package catalog_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/cyclelab/catalog"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/preset/memory"
	"github.com/zintix-labs/cyclelab/seeds"
	"github.com/zintix-labs/cyclelab/spec"
)

const seedYAML = `
presets:
  - name: Alpha
    buttonLabel: A
    colorTag: red
    min_bet_amount: 1
    max_bet_amount: 10
    wins_percentage: 50
    losses_percentage: 30
    draws_percentage: 20
    cycle_games: 10
`

const seedJSON = `{"presets":[{"name":"beta","buttonLabel":"B","colorTag":"blue","min_bet_amount":2,"max_bet_amount":20,
"wins_percentage":40,"losses_percentage":40,"draws_percentage":20,"cycle_games":20,"pause_between_cycles":0,"pause_on_draw":0}]}`

func TestCatalogLoadsYAMLAndJSON(t *testing.T) {
	c, err := catalog.New(fstest.MapFS{
		"a.yaml":    {Data: []byte(seedYAML)},
		"b.json":    {Data: []byte(seedJSON)},
		"README.md": {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 presets, got %d", c.Len())
	}
	all := c.All()
	if all[0].Name != "Alpha" || all[1].Name != "beta" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if _, ok := c.GetByName("  alpha "); !ok {
		t.Fatalf("lookup should be case-insensitive")
	}
}

func TestCatalogRejectsDuplicateName(t *testing.T) {
	_, err := catalog.New(
		fstest.MapFS{"a.yaml": {Data: []byte(seedYAML)}},
		fstest.MapFS{"c.yaml": {Data: []byte(seedYAML)}},
	)
	if !errors.Is(err, catalog.ErrDupName) {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
}

func TestCatalogRejectsDuplicateFile(t *testing.T) {
	_, err := catalog.New(
		fstest.MapFS{"a.yaml": {Data: []byte(seedYAML)}},
		fstest.MapFS{"a.yaml": {Data: []byte(seedYAML)}},
	)
	if err == nil {
		t.Fatalf("expected duplicate file error")
	}
}

func TestCatalogRejectsSubdirectory(t *testing.T) {
	_, err := catalog.New(fstest.MapFS{"nested/a.yaml": {Data: []byte(seedYAML)}})
	if err == nil {
		t.Fatalf("expected flat FS error")
	}
}

func TestCatalogRejectsUnknownField(t *testing.T) {
	_, err := catalog.New(fstest.MapFS{"a.yaml": {Data: []byte("presets:\n  - name: x\n    colour: red\n")}})
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, err := catalog.New(fstest.MapFS{
		"a.yaml": {Data: []byte(seedYAML)},
		"b.json": {Data: []byte(seedJSON)},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	// 名稱已存在（大小寫不同）就跳過
	repo := memory.New(spec.Preset{Name: "ALPHA"})

	n, err := c.Seed(ctx, repo, nil)
	if err != nil || n != 1 {
		t.Fatalf("first seed: n=%d err=%v", n, err)
	}
	n, err = c.Seed(ctx, repo, nil)
	if err != nil || n != 0 {
		t.Fatalf("second seed: n=%d err=%v", n, err)
	}
	ps, _ := repo.List(ctx)
	if len(ps) != 2 {
		t.Fatalf("expected 2 presets in repo, got %d", len(ps))
	}
}

func TestSeedRunsCheck(t *testing.T) {
	bad := "presets:\n  - name: bad\n    min_bet_amount: 10\n    max_bet_amount: 5\n    wins_percentage: 50\n    losses_percentage: 50\n    draws_percentage: 0\n    cycle_games: 10\n"
	c, err := catalog.New(fstest.MapFS{"a.yaml": {Data: []byte(bad)}})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	p := engine.NewDefault()
	repo := memory.New()
	_, err = c.Seed(context.Background(), repo, func(ps spec.Preset) error { return p.ValidatePreset(ps).Err() })
	if err == nil {
		t.Fatalf("expected invalid seed error")
	}
	if ps, _ := repo.List(context.Background()); len(ps) != 0 {
		t.Fatalf("nothing should be written when a seed is invalid")
	}
}

func TestEmbeddedSeedsAreValid(t *testing.T) {
	c, err := catalog.New(seeds.FS)
	if err != nil {
		t.Fatalf("embedded seeds: %v", err)
	}
	if c.Len() == 0 {
		t.Fatalf("embedded seeds are empty")
	}
	p := engine.NewDefault()
	for _, ps := range c.All() {
		if l := p.ValidatePreset(ps); len(l) != 0 {
			t.Fatalf("seed %q invalid: %v", ps.Name, l)
		}
	}
}

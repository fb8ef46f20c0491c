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

package cyclelab_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/zintix-labs/cyclelab"
	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/catalog"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/preset/memory"
	"github.com/zintix-labs/cyclelab/seeds"
	"github.com/zintix-labs/cyclelab/spec"
)

type fakeBots struct {
	created []spec.BotPayload
	updated map[string]spec.BotPayload
	err     error
}

func (f *fakeBots) CreateBot(_ context.Context, p spec.BotPayload) (*botapi.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &botapi.Response{ID: "b-1"}, nil
}

func (f *fakeBots) UpdateBot(_ context.Context, id string, p spec.BotPayload) (*botapi.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[string]spec.BotPayload{}
	}
	f.updated[id] = p
	return &botapi.Response{ID: id}, nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLab(t *testing.T, bots botapi.Client) *cyclelab.Lab {
	t.Helper()
	opts := []cyclelab.Option{cyclelab.WithLogger(quiet())}
	if bots != nil {
		opts = append(opts, cyclelab.WithBotClient(bots))
	}
	lab, err := cyclelab.New(memory.New(), opts...)
	if err != nil {
		t.Fatalf("new lab: %v", err)
	}
	return lab
}

func form() spec.BotForm {
	return spec.BotForm{
		Name:       "bot-1",
		Bets:       spec.BetRange{Min: 1, Max: 100},
		Dist:       spec.Distribution{WinsPct: 50, LossesPct: 30, DrawsPct: 20},
		CycleGames: 10,
	}
}

func TestCreateBotSendsPlannedCounts(t *testing.T) {
	bots := &fakeBots{}
	lab := newLab(t, bots)

	sub, err := lab.CreateBot(context.Background(), form())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(bots.created) != 1 {
		t.Fatalf("backend called %d times", len(bots.created))
	}
	p := bots.created[0]
	if p.WinsCount != 5 || p.LossesCount != 3 || p.DrawsCount != 2 {
		t.Fatalf("counts = %d/%d/%d", p.WinsCount, p.LossesCount, p.DrawsCount)
	}
	if p.CreationMode != spec.CreationManual || p.ProfitStrategy != spec.StrategyBalanced {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if sub.Response.ID != "b-1" {
		t.Fatalf("response = %+v", sub.Response)
	}
}

func TestCreateAndUpdateShareComputation(t *testing.T) {
	bots := &fakeBots{}
	lab := newLab(t, bots)
	ctx := context.Background()

	if _, err := lab.CreateBot(ctx, form()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := lab.UpdateBot(ctx, "b-1", form()); err != nil {
		t.Fatalf("update: %v", err)
	}
	c, u := bots.created[0], bots.updated["b-1"]
	if c.CycleEconomics == nil || u.CycleEconomics == nil || *c.CycleEconomics != *u.CycleEconomics {
		t.Fatalf("economics differ: %+v vs %+v", c.CycleEconomics, u.CycleEconomics)
	}
	c.CycleEconomics, u.CycleEconomics = nil, nil
	if c != u {
		t.Fatalf("create and update payloads differ:\n%+v\n%+v", c, u)
	}
}

func TestInvalidFormNeverReachesBackend(t *testing.T) {
	bots := &fakeBots{}
	lab := newLab(t, bots)

	f := form()
	f.Name = ""
	f.Bets = spec.BetRange{Min: 50, Max: 10}
	f.Dist.WinsPct = 90
	_, err := lab.CreateBot(context.Background(), f)

	l, ok := errs.AsList(err)
	if !ok {
		t.Fatalf("expected errs.List, got %v", err)
	}
	for _, code := range []errs.Code{errs.NameRequired, errs.BetRangeInvalid, errs.PercentageSumMismatch} {
		if !l.Has(code) {
			t.Fatalf("missing %s in %v", code, l.Codes())
		}
	}
	if len(bots.created) != 0 {
		t.Fatalf("backend must not be called with an invalid form")
	}
}

func TestBackendErrorPassesThrough(t *testing.T) {
	be := &botapi.Error{Status: 422, Message: "Bot name already taken"}
	lab := newLab(t, &fakeBots{err: be})

	_, err := lab.CreateBot(context.Background(), form())
	var got *botapi.Error
	if !errors.As(err, &got) || got.Message != "Bot name already taken" {
		t.Fatalf("expected backend error verbatim, got %v", err)
	}
}

func TestCreateWithoutBackend(t *testing.T) {
	lab := newLab(t, nil)
	if _, err := lab.CreateBot(context.Background(), form()); !errors.Is(err, cyclelab.ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}

func TestPreviewAlwaysReturnsPlan(t *testing.T) {
	lab := newLab(t, nil)
	f := form()
	f.CycleGames = 0
	plan := lab.Preview(f)
	if plan.Valid() {
		t.Fatalf("cycle_games=0 should be invalid")
	}
	if plan.Counts.Total() != plan.CycleGames {
		t.Fatalf("counts %+v do not sum to %d", plan.Counts, plan.CycleGames)
	}
}

func TestPresetFlow(t *testing.T) {
	lab := newLab(t, nil)
	ctx := context.Background()

	p := spec.Preset{
		Name: "steady", ButtonLabel: "Steady", ColorTag: "green",
		MinBetAmount: 1, MaxBetAmount: 100,
		WinsPercentage: 50, LossesPercentage: 30, DrawsPercentage: 20,
		CycleGames: 10, PauseBetweenCycles: 60, PauseOnDraw: 5,
	}
	saved, err := lab.SavePreset(ctx, p)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := lab.FormFromPreset(ctx, saved.ID, "from-preset")
	if err != nil {
		t.Fatalf("form from preset: %v", err)
	}
	if f.Name != "from-preset" || f.CreationMode != spec.CreationPreset || f.CycleGames != 10 || f.PauseOnDraw != 5 {
		t.Fatalf("unexpected form: %+v", f)
	}

	if err := lab.DeletePreset(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := lab.LoadPreset(ctx, saved.ID); !errors.Is(err, preset.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSavePresetValidates(t *testing.T) {
	lab := newLab(t, nil)
	_, err := lab.SavePreset(context.Background(), spec.Preset{Name: "bad", MinBetAmount: 5, MaxBetAmount: 5, CycleGames: 10,
		WinsPercentage: 50, LossesPercentage: 50})
	l, ok := errs.AsList(err)
	if !ok || !l.Has(errs.BetRangeInvalid) {
		t.Fatalf("expected BetRangeInvalid, got %v", err)
	}
	if ps, _ := lab.ListPresets(context.Background()); len(ps) != 0 {
		t.Fatalf("invalid preset was stored")
	}
}

func TestSeedEmbeddedCatalog(t *testing.T) {
	lab := newLab(t, nil)
	cat, err := catalog.New(seeds.FS)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	n, err := lab.Seed(context.Background(), cat)
	if err != nil || n != cat.Len() {
		t.Fatalf("seed: n=%d err=%v", n, err)
	}
	if n, _ := lab.Seed(context.Background(), cat); n != 0 {
		t.Fatalf("second seed added %d", n)
	}
}

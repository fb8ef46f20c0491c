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

package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

func TestDecodePlanRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/plan?name=b1&min_bet_amount=1&max_bet_amount=100&wins_percentage=44&losses_percentage=36&draws_percentage=20&cycle_games=16&flow=strict", nil)
	req, err := DecodePlanRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := req.Form()
	if f.Name != "b1" || f.Bets.Max != 100 || f.Dist.WinsPct != 44 || f.CycleGames != 16 {
		t.Fatalf("unexpected form: %+v", f)
	}
	if f.Flow != spec.FlowStrict || f.CreationMode != spec.CreationManual || f.ProfitStrategy != spec.StrategyBalanced {
		t.Fatalf("defaults not applied: %+v", f)
	}
}

func TestDecodePlanRequestGETCollectsBadNumbers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/plan?min_bet_amount=abc&cycle_games=1.5", nil)
	_, err := DecodePlanRequest(r)
	l, ok := errs.AsList(err)
	if !ok || len(l) != 2 {
		t.Fatalf("expected 2 errors, got %v", err)
	}
}

func TestDecodePlanRequestPOST(t *testing.T) {
	data := []byte(`{"name":"b2","min_bet_amount":5,"max_bet_amount":50,"wins_percentage":50,"losses_percentage":30,"draws_percentage":20,"cycle_games":10,"profit_strategy":"aggressive"}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(data))
	req, err := DecodePlanRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.MinBetAmount != 5 || req.ProfitStrategy != spec.StrategyAggressive {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodePlanRequestRejectsUnknownFields(t *testing.T) {
	data := []byte(`{"name":"b","wins_pct":50}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(data))
	if _, err := DecodePlanRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDecodeSweepRequestDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/sweep?min_bet_amount=1&max_bet_amount=100&losses_percentage=36&draws_percentage=20&cycle_games=16", nil)
	req, err := DecodeSweepRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.From != 0 || req.To != 100 || req.Steps != 11 {
		t.Fatalf("unexpected sweep range: %+v", req)
	}
	r = httptest.NewRequest(http.MethodGet, "/v1/sweep?from=30&to=60&steps=4", nil)
	req, err = DecodeSweepRequest(r)
	if err != nil || req.From != 30 || req.To != 60 || req.Steps != 4 {
		t.Fatalf("override failed: %+v %v", req, err)
	}
}

func TestDecodePreset(t *testing.T) {
	data := []byte(`{"name":"steady","buttonLabel":"Steady","colorTag":"green","min_bet_amount":1,"max_bet_amount":50,"wins_percentage":50,"losses_percentage":30,"draws_percentage":20,"cycle_games":10,"pause_between_cycles":60,"pause_on_draw":5}`)
	r := httptest.NewRequest(http.MethodPost, "/v1/presets", bytes.NewReader(data))
	p, err := DecodePreset(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ButtonLabel != "Steady" || p.PauseOnDraw != 5 {
		t.Fatalf("unexpected preset: %+v", p)
	}
}

func TestNewErrorItems(t *testing.T) {
	var l errs.List
	l.Add(errs.Invalid(errs.BetRangeInvalid, "min must be less than max", "min_bet_amount", "max_bet_amount"))
	l.Add(errs.Invalid(errs.NameRequired, "name is required", "name"))
	items := NewErrorItems(l)
	if len(items) != 2 || items[0].Code != "BetRangeInvalid" || len(items[0].Fields) != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}

	items = NewErrorItems(&botapi.Error{Status: 422, Message: "Bot name already taken"})
	if len(items) != 1 || items[0].Message != "Bot name already taken" {
		t.Fatalf("backend message not kept: %+v", items)
	}

	if items := NewErrorItems(nil); items == nil || len(items) != 0 {
		t.Fatalf("nil error should give empty slice")
	}
}

func TestNewPlanResponse(t *testing.T) {
	f := spec.BotForm{Name: "b", Bets: spec.BetRange{Min: 1, Max: 100},
		Dist: spec.Distribution{WinsPct: 44, LossesPct: 36, DrawsPct: 20}, CycleGames: 16}.WithDefaults()
	resp := NewPlanResponse(f, engine.NewDefault().Plan(f))
	if !resp.Valid || len(resp.Errors) != 0 {
		t.Fatalf("expected valid plan: %+v", resp.Errors)
	}
	if resp.Economics.TotalEstimate != 808 || resp.Counts.Total() != 16 {
		t.Fatalf("unexpected plan: %+v", resp)
	}
}

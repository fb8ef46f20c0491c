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

package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// Validator 送出前的範圍/一致性檢查，所有問題一次收集，不會在第一個錯誤就停。
type Validator struct {
	Limits spec.Limits
}

// NewValidator 以給定界線建立 Validator
func NewValidator(l spec.Limits) *Validator {
	return &Validator{Limits: l}
}

// Validate 檢查表單。回傳的 List 為空代表可以送出。
func (v *Validator) Validate(f spec.BotForm) errs.List {
	var list errs.List
	if strings.TrimSpace(f.Name) == "" {
		list.Add(errs.Invalid(errs.NameRequired, "name is required", "name"))
	}
	list.Add(v.settings(f.Bets, f.Dist, f.CycleGames, f.PauseBetweenCycles, f.PauseOnDraw, f.Flow)...)
	return list
}

// ValidatePreset 檢查 Preset 的參數組合（以一般流程的局數界線）。
func (v *Validator) ValidatePreset(p spec.Preset) errs.List {
	var list errs.List
	if strings.TrimSpace(p.Name) == "" {
		list.Add(errs.Invalid(errs.NameRequired, "preset name is required", "name"))
	}
	list.Add(v.settings(p.Bets(), p.Dist(), p.CycleGames, p.PauseBetweenCycles, p.PauseOnDraw, spec.FlowDefault)...)
	return list
}

func (v *Validator) settings(r spec.BetRange, d spec.Distribution, games, pauseCycles, pauseDraw int, flow spec.Flow) errs.List {
	var list errs.List
	list.Merge(Normalize(d, v.Limits.SumTolerance))
	list.Add(v.betRange(r)...)

	// 未設定的流程沒有局數界線可比，只回報流程本身
	if flow != "" && !v.Limits.HasFlow(flow) {
		list.Add(errs.Invalid(errs.FlowUnknown,
			fmt.Sprintf("flow %q is not configured", flow), "flow"))
	} else if w := v.Limits.CycleWindow(flow); !w.Contains(games) {
		list.Add(errs.Invalid(errs.CycleLengthOutOfRange,
			fmt.Sprintf("cycle_games must be within [%d,%d] for flow %q, got %d", w.Min, w.Max, flowName(flow), games),
			"cycle_games"))
	}
	if pw := v.Limits.PauseBetweenCycles; !pw.Contains(pauseCycles) {
		list.Add(errs.Invalid(errs.PauseOutOfRange,
			fmt.Sprintf("pause_between_cycles must be within [%d,%d], got %d", pw.Min, pw.Max, pauseCycles),
			"pause_between_cycles"))
	}
	if pw := v.Limits.PauseOnDraw; !pw.Contains(pauseDraw) {
		list.Add(errs.Invalid(errs.PauseOutOfRange,
			fmt.Sprintf("pause_on_draw must be within [%d,%d], got %d", pw.Min, pw.Max, pauseDraw),
			"pause_on_draw"))
	}
	return list
}

func (v *Validator) betRange(r spec.BetRange) errs.List {
	var list errs.List
	floor, ceil := v.Limits.BetFloor, v.Limits.BetCeiling
	if math.IsNaN(r.Min) || r.Min < floor || r.Min > ceil {
		list.Add(errs.Invalid(errs.BetRangeInvalid,
			fmt.Sprintf("min_bet_amount must be within [%v,%v], got %v", floor, ceil, r.Min), "min_bet_amount"))
	}
	if math.IsNaN(r.Max) || r.Max < floor || r.Max > ceil {
		list.Add(errs.Invalid(errs.BetRangeInvalid,
			fmt.Sprintf("max_bet_amount must be within [%v,%v], got %v", floor, ceil, r.Max), "max_bet_amount"))
	}
	if r.Min >= r.Max {
		list.Add(errs.Invalid(errs.BetRangeInvalid,
			fmt.Sprintf("min_bet_amount (%v) must be less than max_bet_amount (%v)", r.Min, r.Max),
			"min_bet_amount", "max_bet_amount"))
	}
	return list
}

func flowName(f spec.Flow) spec.Flow {
	if f == "" {
		return spec.FlowDefault
	}
	return f
}

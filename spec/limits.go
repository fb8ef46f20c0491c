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

package spec

import (
	"fmt"

	"github.com/zintix-labs/cyclelab/errs"
)

// Flow 表單流程。不同流程的週期局數界線不同。
type Flow string

const (
	FlowDefault Flow = "default"
	FlowStrict  Flow = "strict"
)

const (
	DefaultSumTolerance       float64 = 0.1
	DefaultRebalanceTolerance int     = 2
)

// Window 閉區間 [Min, Max]
type Window struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

func (w Window) Contains(v int) bool {
	return v >= w.Min && v <= w.Max
}

// Limits 驗證器使用的界線設定，可由 YAML 載入，未填的欄位使用預設值。
type Limits struct {
	BetFloor           float64         `yaml:"bet_floor"            json:"bet_floor"`
	BetCeiling         float64         `yaml:"bet_ceiling"          json:"bet_ceiling"`
	CycleGames         map[Flow]Window `yaml:"cycle_games"          json:"cycle_games"`
	PauseBetweenCycles Window          `yaml:"pause_between_cycles" json:"pause_between_cycles"`
	PauseOnDraw        Window          `yaml:"pause_on_draw"        json:"pause_on_draw"`
	SumTolerance       float64         `yaml:"sum_tolerance"        json:"sum_tolerance"`
	RebalanceTolerance int             `yaml:"rebalance_tolerance"  json:"rebalance_tolerance"`
}

// DefaultLimits 回傳預設界線。
//   - 一般流程週期局數 [1,100]，嚴格流程 [4,66]
//   - 單注 [1, 100000]
//   - 週期間暫停 [0,3600] 秒，和局暫停 [0,600] 秒
func DefaultLimits() Limits {
	return Limits{
		BetFloor:   1,
		BetCeiling: 100000,
		CycleGames: map[Flow]Window{
			FlowDefault: {Min: 1, Max: 100},
			FlowStrict:  {Min: 4, Max: 66},
		},
		PauseBetweenCycles: Window{Min: 0, Max: 3600},
		PauseOnDraw:        Window{Min: 0, Max: 600},
		SumTolerance:       DefaultSumTolerance,
		RebalanceTolerance: DefaultRebalanceTolerance,
	}
}

// CycleWindow 回傳流程對應的局數界線；未知流程退回一般流程。
func (l Limits) CycleWindow(f Flow) Window {
	if w, ok := l.CycleGames[f]; ok {
		return w
	}
	return l.CycleGames[FlowDefault]
}

// init 只補上缺少的流程視窗，其餘欄位照原樣檢查。
// 純量欄位的預設值由解碼前的 DefaultLimits() 提供，明確寫 0 的值會保留。
func (l *Limits) init() error {
	def := DefaultLimits()
	if l.CycleGames == nil {
		l.CycleGames = map[Flow]Window{}
	}
	for f, w := range def.CycleGames {
		if _, ok := l.CycleGames[f]; !ok {
			l.CycleGames[f] = w
		}
	}
	return l.valid()
}

// HasFlow 回報流程是否有設定局數界線
func (l Limits) HasFlow(f Flow) bool {
	_, ok := l.CycleGames[f]
	return ok
}

// valid 執行最基本的界線檢查
func (l *Limits) valid() error {
	if l.BetFloor <= 0 || l.BetCeiling <= l.BetFloor {
		return errs.NewFatal(fmt.Sprintf("invalid bet limits: floor=%v ceiling=%v", l.BetFloor, l.BetCeiling))
	}
	for f, w := range l.CycleGames {
		if w.Min < 1 || w.Max < w.Min {
			return errs.NewFatal(fmt.Sprintf("invalid cycle_games window for flow %q: [%d,%d]", f, w.Min, w.Max))
		}
	}
	if l.PauseBetweenCycles.Min < 0 || l.PauseBetweenCycles.Max < l.PauseBetweenCycles.Min {
		return errs.NewFatal("invalid pause_between_cycles window")
	}
	if l.PauseOnDraw.Min < 0 || l.PauseOnDraw.Max < l.PauseOnDraw.Min {
		return errs.NewFatal("invalid pause_on_draw window")
	}
	if l.SumTolerance < 0 {
		return errs.NewFatal("sum_tolerance must be non-negative")
	}
	if l.RebalanceTolerance < 0 {
		return errs.NewFatal("rebalance_tolerance must be non-negative")
	}
	return nil
}

// Init 給外部（例如 config 套件）在自行解碼後呼叫。
// 呼叫端應先以 DefaultLimits() 為底再解碼，否則未寫的欄位會是零值。
func (l *Limits) Init() error {
	return l.init()
}

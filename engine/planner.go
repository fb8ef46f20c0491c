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
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// Plan 一次表單變動後的完整推算結果
type Plan struct {
	CycleGames int            `json:"cycle_games"`
	Raw        spec.Counts    `json:"raw_counts"`
	Counts     spec.Counts    `json:"counts"`
	Buckets    Buckets        `json:"buckets"`
	Economics  spec.Economics `json:"economics"`
	Errors     errs.List      `json:"-"`
}

// Valid 表示沒有任何驗證錯誤，可以送出
func (p *Plan) Valid() bool {
	return len(p.Errors) == 0
}

// Payload 把表單與推算結果組成送往 bot 服務的內容
func (p *Plan) Payload(f spec.BotForm) spec.BotPayload {
	eco := p.Economics
	return spec.NewBotPayload(f, p.Counts, &eco)
}

// Planner 對外唯一的計算入口。建立、編輯與預覽都經由它取得同一套結果。
type Planner interface {
	Normalize(d spec.Distribution) error
	Apportion(n int, d spec.Distribution) spec.Counts
	Rebalance(c spec.Counts, n int) spec.Counts
	Estimate(r spec.BetRange, n int, d spec.Distribution) spec.Economics
	Validate(f spec.BotForm) errs.List
	ValidatePreset(p spec.Preset) errs.List
	Plan(f spec.BotForm) *Plan
	Limits() spec.Limits
}

type planner struct {
	limits spec.Limits
	rb     Rebalancer
	v      *Validator
}

// New 以界線設定建立 Planner
func New(l spec.Limits) Planner {
	return &planner{
		limits: l,
		rb:     NewRebalancer(l.RebalanceTolerance),
		v:      NewValidator(l),
	}
}

// NewDefault 以預設界線建立 Planner
func NewDefault() Planner {
	return New(spec.DefaultLimits())
}

func (p *planner) Normalize(d spec.Distribution) error {
	return Normalize(d, p.limits.SumTolerance)
}

func (p *planner) Apportion(n int, d spec.Distribution) spec.Counts {
	return Apportion(n, d)
}

func (p *planner) Rebalance(c spec.Counts, n int) spec.Counts {
	return p.rb.Rebalance(c, n)
}

func (p *planner) Estimate(r spec.BetRange, n int, d spec.Distribution) spec.Economics {
	return Estimate(r, n, d)
}

func (p *planner) Validate(f spec.BotForm) errs.List {
	return p.v.Validate(f)
}

func (p *planner) ValidatePreset(ps spec.Preset) errs.List {
	return p.v.ValidatePreset(ps)
}

func (p *planner) Limits() spec.Limits {
	return p.limits
}

// Plan 計算順序：驗證 → 分配 → 再平衡 → 經濟推算。
// 驗證失敗時照樣算出局數與預估（預覽不中斷），錯誤放在 Errors。
func (p *planner) Plan(f spec.BotForm) *Plan {
	n := max(1, f.CycleGames)
	raw := Apportion(n, f.Dist)
	return &Plan{
		CycleGames: n,
		Raw:        raw,
		Counts:     p.rb.Rebalance(raw, n),
		Buckets:    SplitBuckets(n),
		Economics:  Estimate(f.Bets, n, f.Dist),
		Errors:     p.v.Validate(f),
	}
}

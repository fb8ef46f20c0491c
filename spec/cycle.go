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

// Package spec 定義 bot 週期設定的資料模型：勝負和分佈、押注區間、局數、
// 推算出來的經濟結構、可保存的 Preset，以及驗證用的界線（Limits）。
package spec

import "math"

// Distribution 勝/負/和 的百分比分佈（單位：%）。
//
// 通過驗證的 Distribution 每一項都在 [0,100]，且總和與 100 的差距不超過容忍值（預設 0.1）。
// 分配器本身不要求總和剛好 100。
type Distribution struct {
	WinsPct   float64 `json:"wins_percentage"   yaml:"wins_percentage"`
	LossesPct float64 `json:"losses_percentage" yaml:"losses_percentage"`
	DrawsPct  float64 `json:"draws_percentage"  yaml:"draws_percentage"`
}

// Sum 回傳三項百分比總和
func (d Distribution) Sum() float64 {
	return d.WinsPct + d.LossesPct + d.DrawsPct
}

// Drift 回傳總和與 100 的絕對差
func (d Distribution) Drift() float64 {
	return math.Abs(d.Sum() - 100)
}

// Counts 一個週期內 勝/負/和 的局數。
//
// 分配與再平衡之後恆成立 Wins + Losses + Draws == 週期局數。
type Counts struct {
	Wins   int `json:"wins_count"   yaml:"wins_count"`
	Losses int `json:"losses_count" yaml:"losses_count"`
	Draws  int `json:"draws_count"  yaml:"draws_count"`
}

func (c Counts) Total() int {
	return c.Wins + c.Losses + c.Draws
}

// Gap 回傳 |Wins - Losses|
func (c Counts) Gap() int {
	if c.Wins > c.Losses {
		return c.Wins - c.Losses
	}
	return c.Losses - c.Wins
}

// BetRange 單注金額區間，Min < Max 且皆為正數。
type BetRange struct {
	Min float64 `json:"min_bet_amount" yaml:"min_bet_amount"`
	Max float64 `json:"max_bet_amount" yaml:"max_bet_amount"`
}

// Span 回傳 Max - Min
func (r BetRange) Span() float64 {
	return r.Max - r.Min
}

// Economics 週期經濟結構的預估值（推算值，不單獨保存）。
type Economics struct {
	TotalEstimate float64 `json:"total_estimate" yaml:"total_estimate"`
	WinsSum       float64 `json:"wins_sum"       yaml:"wins_sum"`
	LossesSum     float64 `json:"losses_sum"     yaml:"losses_sum"`
	DrawsSum      float64 `json:"draws_sum"      yaml:"draws_sum"`
	ActivePool    float64 `json:"active_pool"    yaml:"active_pool"`
	Profit        float64 `json:"profit"         yaml:"profit"`
	RoiActive     float64 `json:"roi_active"     yaml:"roi_active"`
}

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

// Package engine 是 bot 週期設定的計算核心：
//
//  1. Normalize：驗證 勝/負/和 百分比。
//  2. Apportion：最大餘數法（Hamilton）把百分比換成精確整數局數。
//  3. Rebalancer：用和局數修補 勝/負 差距。
//  4. Estimate：推算週期的押注總額、風險池、獲利與 ROI。
//
// 以上皆為純函數、O(1)、不會阻塞，也不持有狀態。
// 建立與編輯 bot 兩條流程都透過 Planner 取用同一份實作，避免兩份計算邏輯各自漂移。
package engine

import (
	"fmt"
	"math"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// Normalize 驗證三項百分比：每項需在 [0,100]，總和與 100 的差距不可超過 tolerance。
//
// 所有問題一次收集回傳（errs.List），沒有問題時回傳 nil。
func Normalize(d spec.Distribution, tolerance float64) error {
	var list errs.List

	bad := make([]string, 0, 3)
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"wins_percentage", d.WinsPct},
		{"losses_percentage", d.LossesPct},
		{"draws_percentage", d.DrawsPct},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 100 {
			bad = append(bad, f.name)
			list.Add(errs.Invalid(errs.PercentageOutOfRange,
				fmt.Sprintf("%s must be within [0,100], got %v", f.name, f.v), f.name))
		}
	}

	sum := d.Sum()
	if math.IsNaN(sum) || math.Abs(sum-100) > tolerance {
		e := errs.Invalid(errs.PercentageSumMismatch,
			fmt.Sprintf("percentages must sum to 100 (±%v), got %.2f", tolerance, sum),
			"wins_percentage", "losses_percentage", "draws_percentage")
		if len(bad) > 0 {
			e.Extra = fmt.Sprintf("out of range: %v", bad)
		}
		list.Add(e)
	}
	return list.Err()
}

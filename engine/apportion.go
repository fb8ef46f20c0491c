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
	"math"
	"sort"

	"github.com/zintix-labs/cyclelab/spec"
)

// 類別固定順序，同時也是同分時的優先順序：勝 > 負 > 和
const (
	catWins = iota
	catLosses
	catDraws
)

// Apportion 以最大餘數法把百分比換算成整數局數。
//
//  1. n < 1 時視為 1。
//  2. 各類別實數份額 = pct/100*n，先取 floor。
//  3. 剩餘 R = n - floor 總和，依小數部分由大到小排序（同分依 勝>負>和），
//     從排序第一位開始逐一發放，循環直到 R 用完。
//
// 輸出恆有 Wins+Losses+Draws == n 且皆非負；相同輸入必得相同輸出。
//
// 輸入總和明顯超過 100 時 R 為負，會依排序反向逐一收回（跳過已為 0 的類別）。
// 負數或 NaN 的百分比視為 0，超過 100 視為 100；上層應先用 Normalize 驗證。
func Apportion(n int, d spec.Distribution) spec.Counts {
	n = max(1, n)

	share := [3]float64{
		shareOf(d.WinsPct, n),
		shareOf(d.LossesPct, n),
		shareOf(d.DrawsPct, n),
	}
	var cnt [3]int
	var frac [3]float64
	used := 0
	for i, s := range share {
		f := math.Floor(s)
		cnt[i] = int(f)
		frac[i] = s - f
		used += cnt[i]
	}

	rank := []int{catWins, catLosses, catDraws}
	sort.SliceStable(rank, func(i, j int) bool {
		return frac[rank[i]] > frac[rank[j]]
	})

	rem := n - used
	for i := 0; rem > 0; i++ {
		cnt[rank[i%3]]++
		rem--
	}
	for i := 0; rem < 0; i++ {
		c := rank[2-i%3]
		if cnt[c] == 0 {
			continue
		}
		cnt[c]--
		rem++
	}

	return spec.Counts{Wins: cnt[catWins], Losses: cnt[catLosses], Draws: cnt[catDraws]}
}

func shareOf(pct float64, n int) float64 {
	if math.IsNaN(pct) || pct <= 0 {
		return 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct / 100 * float64(n)
}

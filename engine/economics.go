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

	"github.com/zintix-labs/cyclelab/spec"
)

// 三個押注大小分桶：局數比例與代表押注（區間內的位置）
const (
	smallShare  = 0.25
	mediumShare = 0.5

	smallPos  = 0.15
	mediumPos = 0.5
	largePos  = 0.85
)

// Buckets 推算用的局數分桶
type Buckets struct {
	Small  int `json:"small"  yaml:"small"`
	Medium int `json:"medium" yaml:"medium"`
	Large  int `json:"large"  yaml:"large"`
}

// SplitBuckets 把 n 局切成 小/中/大 三桶：
// small = max(1, round(0.25n))，medium = round(0.5n)，large = 其餘。
//
// n=1 時不照上面的公式：公式會得到 medium=1、large=-1，
// 這裡把 medium 降成 n-small（即 0），結果是 {1,0,0}。
// n<1 一律當成 1。
func SplitBuckets(n int) Buckets {
	n = max(1, n)
	small := max(1, int(roundHalfUp(smallShare*float64(n))))
	medium := int(roundHalfUp(mediumShare * float64(n)))
	if small+medium > n {
		medium = max(0, n-small)
	}
	return Buckets{Small: small, Medium: medium, Large: n - small - medium}
}

// Estimate 推算一個週期的經濟結構（不模擬實際押注序列，只是預覽）。
//
//	total      = small*avg(15%) + medium*avg(50%) + large*avg(85%)
//	xxxSum     = round(total * pct / 100)
//	activePool = winsSum + lossesSum    （和局退回本金，不算風險）
//	profit     = winsSum - lossesSum
//	roiActive  = round2(profit / activePool * 100)，activePool 為 0 時為 0
func Estimate(r spec.BetRange, n int, d spec.Distribution) spec.Economics {
	b := SplitBuckets(n)
	span := r.Span()
	smallAvg := r.Min + smallPos*span
	mediumAvg := r.Min + mediumPos*span
	largeAvg := r.Min + largePos*span

	total := float64(b.Small)*smallAvg + float64(b.Medium)*mediumAvg + float64(b.Large)*largeAvg

	eco := spec.Economics{
		TotalEstimate: total,
		WinsSum:       roundHalfUp(total * d.WinsPct / 100),
		LossesSum:     roundHalfUp(total * d.LossesPct / 100),
		DrawsSum:      roundHalfUp(total * d.DrawsPct / 100),
	}
	eco.ActivePool = eco.WinsSum + eco.LossesSum
	eco.Profit = eco.WinsSum - eco.LossesSum
	if eco.ActivePool > 0 {
		eco.RoiActive = round2(eco.Profit / eco.ActivePool * 100)
	}
	return eco
}

// roundHalfUp 四捨五入（.5 一律往正無窮）
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func round2(x float64) float64 {
	return roundHalfUp(x*100) / 100
}

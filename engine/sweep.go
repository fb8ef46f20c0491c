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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// SweepPoint 掃描中的一個取樣點
type SweepPoint struct {
	WinsPct   float64        `json:"wins_percentage" yaml:"wins_percentage"`
	Counts    spec.Counts    `json:"counts"          yaml:"counts"`
	Economics spec.Economics `json:"economics"       yaml:"economics"`
}

// SweepResult 勝率掃描結果與 ROI 摘要
type SweepResult struct {
	Points  []SweepPoint `json:"points"   yaml:"points"`
	RoiMean float64      `json:"roi_mean" yaml:"roi_mean"`
	RoiMin  float64      `json:"roi_min"  yaml:"roi_min"`
	RoiMax  float64      `json:"roi_max"  yaml:"roi_max"`
}

// Sweep 固定 負/和 百分比，把勝率從 from 等距掃到 to（含兩端，共 steps 點），
// 看 ROI 與獲利如何變化。f 提供押注區間、局數與 負/和 百分比。
func Sweep(p Planner, f spec.BotForm, from, to float64, steps int) (*SweepResult, error) {
	if steps < 2 {
		return nil, errs.NewWarn("sweep steps must be at least 2")
	}
	if from < 0 || to > 100 || from > to {
		return nil, errs.Warnf("invalid sweep range [%v,%v]", from, to)
	}
	grid := floats.Span(make([]float64, steps), from, to)

	n := max(1, f.CycleGames)
	res := &SweepResult{Points: make([]SweepPoint, 0, steps)}
	rois := make([]float64, 0, steps)
	for _, w := range grid {
		d := f.Dist
		d.WinsPct = w
		pt := SweepPoint{
			WinsPct:   w,
			Counts:    p.Rebalance(p.Apportion(n, d), n),
			Economics: p.Estimate(f.Bets, n, d),
		}
		res.Points = append(res.Points, pt)
		rois = append(rois, pt.Economics.RoiActive)
	}
	res.RoiMean = stat.Mean(rois, nil)
	res.RoiMin = floats.Min(rois)
	res.RoiMax = floats.Max(rois)
	return res, nil
}

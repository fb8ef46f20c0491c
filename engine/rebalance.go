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

import "github.com/zintix-labs/cyclelab/spec"

// Rebalancer 在分配結果上修補 勝/負 差距，讓短週期的行為看起來合理。
//
// Tolerance 為允許的 |W-L| 上限（預設 2）。
type Rebalancer struct {
	Tolerance int
}

// NewRebalancer 建立 Rebalancer，負數容忍值視為 0。
func NewRebalancer(tolerance int) Rebalancer {
	return Rebalancer{Tolerance: max(0, tolerance)}
}

// Rebalance 借用和局數縮小 勝/負 差距。
//
//  1. diff = |W-L| > Tolerance 且 D > 0 時，先移轉 min(D, floor((diff-Tolerance)/2)) 給較少的一方。
//  2. 若仍超過容忍值，逐一把和局移給較少的一方，直到差距回到容忍值內或 D 用完。
//  3. 總和若不等於 n，多出的先從 D 扣、再從較多的一方扣；不足的補給 D。
//  4. 全部夾成非負。
//
// 結果：總和 == n；皆非負；|W-L| <= Tolerance，或 D == 0（和局不夠用，保留剩餘差距）。
func (rb Rebalancer) Rebalance(c spec.Counts, n int) spec.Counts {
	n = max(1, n)
	tol := max(0, rb.Tolerance)
	c = clampCounts(c)

	if diff := c.Gap(); diff > tol && c.Draws > 0 {
		moveDraws(&c, min(c.Draws, (diff-tol)/2))
	}
	for c.Gap() > tol && c.Draws > 0 {
		moveDraws(&c, 1)
	}

	fixTotal(&c, n)
	return clampCounts(c)
}

// moveDraws 把 k 局和局移給 勝/負 較少的一方（同數時給勝）
func moveDraws(c *spec.Counts, k int) {
	if k <= 0 {
		return
	}
	if c.Wins <= c.Losses {
		c.Wins += k
	} else {
		c.Losses += k
	}
	c.Draws -= k
}

func fixTotal(c *spec.Counts, n int) {
	diff := n - c.Total()
	if diff > 0 {
		c.Draws += diff
		return
	}
	for diff < 0 {
		switch {
		case c.Draws > 0:
			take := min(c.Draws, -diff)
			c.Draws -= take
			diff += take
		case c.Wins >= c.Losses && c.Wins > 0:
			c.Wins--
			diff++
		case c.Losses > 0:
			c.Losses--
			diff++
		default:
			return
		}
	}
}

func clampCounts(c spec.Counts) spec.Counts {
	c.Wins = max(0, c.Wins)
	c.Losses = max(0, c.Losses)
	c.Draws = max(0, c.Draws)
	return c
}

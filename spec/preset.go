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

// Preset 具名、可重複使用的 bot 參數組合。
//
// JSON 欄位是持久化格式（單一 key 下的 JSON 陣列），buttonLabel/colorTag 維持 camelCase。
// 沒有原地更新：要修改請刪除後重建。
type Preset struct {
	ID                 string  `json:"id"                   yaml:"id,omitempty"`
	Name               string  `json:"name"                 yaml:"name"`
	ButtonLabel        string  `json:"buttonLabel"          yaml:"buttonLabel"`
	ColorTag           string  `json:"colorTag"             yaml:"colorTag"`
	MinBetAmount       float64 `json:"min_bet_amount"       yaml:"min_bet_amount"`
	MaxBetAmount       float64 `json:"max_bet_amount"       yaml:"max_bet_amount"`
	WinsPercentage     float64 `json:"wins_percentage"      yaml:"wins_percentage"`
	LossesPercentage   float64 `json:"losses_percentage"    yaml:"losses_percentage"`
	DrawsPercentage    float64 `json:"draws_percentage"     yaml:"draws_percentage"`
	CycleGames         int     `json:"cycle_games"          yaml:"cycle_games"`
	PauseBetweenCycles int     `json:"pause_between_cycles" yaml:"pause_between_cycles"`
	PauseOnDraw        int     `json:"pause_on_draw"        yaml:"pause_on_draw"`
}

func (p Preset) Bets() BetRange {
	return BetRange{Min: p.MinBetAmount, Max: p.MaxBetAmount}
}

func (p Preset) Dist() Distribution {
	return Distribution{WinsPct: p.WinsPercentage, LossesPct: p.LossesPercentage, DrawsPct: p.DrawsPercentage}
}

// Form 把 Preset 展開成表單（bot 名稱由呼叫端決定）。
func (p Preset) Form(name string) BotForm {
	return BotForm{
		Name:               name,
		Bets:               p.Bets(),
		Dist:               p.Dist(),
		CycleGames:         p.CycleGames,
		PauseBetweenCycles: p.PauseBetweenCycles,
		PauseOnDraw:        p.PauseOnDraw,
		CreationMode:       CreationPreset,
	}
}

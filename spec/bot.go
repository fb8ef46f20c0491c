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

// CreationMode bot 建立方式
type CreationMode string

const (
	CreationManual CreationMode = "manual"
	CreationPreset CreationMode = "preset"
)

// ProfitStrategy 由後端解讀的獲利策略，這裡只負責傳遞。
type ProfitStrategy string

const (
	StrategyBalanced     ProfitStrategy = "balanced"
	StrategyConservative ProfitStrategy = "conservative"
	StrategyAggressive   ProfitStrategy = "aggressive"
)

// BotForm 建立/編輯 bot 時的表單狀態（送出前只存在於記憶體）。
type BotForm struct {
	Name               string         `json:"name"                 yaml:"name"`
	Bets               BetRange       `json:"bets"                 yaml:"bets"`
	Dist               Distribution   `json:"distribution"         yaml:"distribution"`
	CycleGames         int            `json:"cycle_games"          yaml:"cycle_games"`
	PauseBetweenCycles int            `json:"pause_between_cycles" yaml:"pause_between_cycles"`
	PauseOnDraw        int            `json:"pause_on_draw"        yaml:"pause_on_draw"`
	CreationMode       CreationMode   `json:"creation_mode"        yaml:"creation_mode"`
	ProfitStrategy     ProfitStrategy `json:"profit_strategy"      yaml:"profit_strategy"`
	Flow               Flow           `json:"flow,omitempty"       yaml:"flow,omitempty"`
}

// WithDefaults 補上未填的建立方式與策略
func (f BotForm) WithDefaults() BotForm {
	if f.CreationMode == "" {
		f.CreationMode = CreationManual
	}
	if f.ProfitStrategy == "" {
		f.ProfitStrategy = StrategyBalanced
	}
	if f.Flow == "" {
		f.Flow = FlowDefault
	}
	return f
}

// BotPayload 送往外部 bot 服務的建立/更新內容。
//
// 欄位名稱是對外合約，請勿任意更名。
type BotPayload struct {
	Name               string         `json:"name"`
	MinBetAmount       float64        `json:"min_bet_amount"`
	MaxBetAmount       float64        `json:"max_bet_amount"`
	WinsCount          int            `json:"wins_count"`
	LossesCount        int            `json:"losses_count"`
	DrawsCount         int            `json:"draws_count"`
	WinsPercentage     float64        `json:"wins_percentage"`
	LossesPercentage   float64        `json:"losses_percentage"`
	DrawsPercentage    float64        `json:"draws_percentage"`
	CycleGames         int            `json:"cycle_games"`
	PauseBetweenCycles int            `json:"pause_between_cycles"`
	PauseOnDraw        int            `json:"pause_on_draw"`
	CreationMode       CreationMode   `json:"creation_mode"`
	ProfitStrategy     ProfitStrategy `json:"profit_strategy"`
	CycleEconomics     *Economics     `json:"cycle_economics,omitempty"`
}

// NewBotPayload 由表單與已計算好的局數/經濟預估組出 payload。
func NewBotPayload(f BotForm, c Counts, eco *Economics) BotPayload {
	f = f.WithDefaults()
	return BotPayload{
		Name:               f.Name,
		MinBetAmount:       f.Bets.Min,
		MaxBetAmount:       f.Bets.Max,
		WinsCount:          c.Wins,
		LossesCount:        c.Losses,
		DrawsCount:         c.Draws,
		WinsPercentage:     f.Dist.WinsPct,
		LossesPercentage:   f.Dist.LossesPct,
		DrawsPercentage:    f.Dist.DrawsPct,
		CycleGames:         f.CycleGames,
		PauseBetweenCycles: f.PauseBetweenCycles,
		PauseOnDraw:        f.PauseOnDraw,
		CreationMode:       f.CreationMode,
		ProfitStrategy:     f.ProfitStrategy,
		CycleEconomics:     eco,
	}
}

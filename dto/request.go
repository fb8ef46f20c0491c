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

package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// 防止 body 過大（1MiB）
const maxBody = 1 << 20

// PlanRequest 建立/編輯/預覽共用的表單欄位，名稱與送往 bot 服務的 payload 一致。
type PlanRequest struct {
	Name               string              `json:"name"`
	MinBetAmount       float64             `json:"min_bet_amount"`
	MaxBetAmount       float64             `json:"max_bet_amount"`
	WinsPercentage     float64             `json:"wins_percentage"`
	LossesPercentage   float64             `json:"losses_percentage"`
	DrawsPercentage    float64             `json:"draws_percentage"`
	CycleGames         int                 `json:"cycle_games"`
	PauseBetweenCycles int                 `json:"pause_between_cycles"`
	PauseOnDraw        int                 `json:"pause_on_draw"`
	CreationMode       spec.CreationMode   `json:"creation_mode,omitempty"`
	ProfitStrategy     spec.ProfitStrategy `json:"profit_strategy,omitempty"`
	Flow               spec.Flow           `json:"flow,omitempty"`
}

// Form 轉成表單（未填的建立方式、策略、流程補預設）
func (req *PlanRequest) Form() spec.BotForm {
	return spec.BotForm{
		Name:               req.Name,
		Bets:               spec.BetRange{Min: req.MinBetAmount, Max: req.MaxBetAmount},
		Dist:               spec.Distribution{WinsPct: req.WinsPercentage, LossesPct: req.LossesPercentage, DrawsPct: req.DrawsPercentage},
		CycleGames:         req.CycleGames,
		PauseBetweenCycles: req.PauseBetweenCycles,
		PauseOnDraw:        req.PauseOnDraw,
		CreationMode:       req.CreationMode,
		ProfitStrategy:     req.ProfitStrategy,
		Flow:               req.Flow,
	}.WithDefaults()
}

// DecodePlanRequest 把 HTTP 請求解碼成 PlanRequest。
//
// 支援：
//   - GET：從 query string 讀取（欄位名稱同 JSON），方便預覽時直接帶參數。
//   - POST / PUT：從 JSON body 反序列化，開啟 DisallowUnknownFields，拼錯的欄位直接拒絕。
//
// 這裡只負責解碼與型別轉換，範圍檢查由 Planner 的驗證負責。
func DecodePlanRequest(r *http.Request) (*PlanRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(PlanRequest)
	switch r.Method {
	case http.MethodGet:
		if err := req.fromQuery(r.URL.Query()); err != nil {
			return nil, err
		}
		return req, nil
	case http.MethodPost, http.MethodPut:
		if err := decodeJSON(r.Body, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

func (req *PlanRequest) fromQuery(q url.Values) error {
	var list errs.List
	req.Name = q.Get("name")
	req.MinBetAmount = queryFloat(q, "min_bet_amount", &list)
	req.MaxBetAmount = queryFloat(q, "max_bet_amount", &list)
	req.WinsPercentage = queryFloat(q, "wins_percentage", &list)
	req.LossesPercentage = queryFloat(q, "losses_percentage", &list)
	req.DrawsPercentage = queryFloat(q, "draws_percentage", &list)
	req.CycleGames = queryInt(q, "cycle_games", &list)
	req.PauseBetweenCycles = queryInt(q, "pause_between_cycles", &list)
	req.PauseOnDraw = queryInt(q, "pause_on_draw", &list)
	req.CreationMode = spec.CreationMode(q.Get("creation_mode"))
	req.ProfitStrategy = spec.ProfitStrategy(q.Get("profit_strategy"))
	req.Flow = spec.Flow(q.Get("flow"))
	return list.Err()
}

// SweepRequest 勝率掃描：表單欄位加上掃描範圍
type SweepRequest struct {
	PlanRequest
	From  float64
	To    float64
	Steps int
}

// DecodeSweepRequest 只支援 GET。from/to/steps 缺省時為 0..100 共 11 點。
func DecodeSweepRequest(r *http.Request) (*SweepRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodGet {
		return nil, errs.NewWarn("method not allowed")
	}
	q := r.URL.Query()
	req := &SweepRequest{From: 0, To: 100, Steps: 11}
	if err := req.PlanRequest.fromQuery(q); err != nil {
		return nil, err
	}
	var list errs.List
	if q.Has("from") {
		req.From = queryFloat(q, "from", &list)
	}
	if q.Has("to") {
		req.To = queryFloat(q, "to", &list)
	}
	if q.Has("steps") {
		req.Steps = queryInt(q, "steps", &list)
	}
	if err := list.Err(); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodePreset 解碼新增 preset 的 JSON body（欄位即持久化格式）
func DecodePreset(r *http.Request) (*spec.Preset, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	p := new(spec.Preset)
	if err := decodeJSON(r.Body, p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeJSON(body io.Reader, v any) error {
	if body == nil {
		return errs.NewWarn("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewWarn("invalid json: " + err.Error())
	}
	return nil
}

func queryFloat(q url.Values, key string, list *errs.List) float64 {
	s := q.Get(key)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		list.Add(errs.NewWarn(fmt.Sprintf("invalid %s: %q", key, s)))
		return 0
	}
	return v
}

func queryInt(q url.Values, key string, list *errs.List) int {
	s := q.Get(key)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		list.Add(errs.NewWarn(fmt.Sprintf("invalid %s: %q", key, s)))
		return 0
	}
	return v
}

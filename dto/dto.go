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

// Package dto 定義 HTTP 層的請求解碼與回應結構。
package dto

import (
	"errors"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/engine"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/spec"
)

// ErrorItem 單一錯誤的對外格式
type ErrorItem struct {
	Code    string   `json:"code,omitempty"   yaml:"code,omitempty"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Message string   `json:"message"          yaml:"message"`
}

// ErrorBody {"errors":[...]}
type ErrorBody struct {
	Errors []ErrorItem `json:"errors"`
}

// NewErrorItems 攤平 err：List 每筆一項，*E 取其 Code/Fields，
// 後端錯誤保留原文，其他錯誤只有訊息。
func NewErrorItems(err error) []ErrorItem {
	if err == nil {
		return []ErrorItem{}
	}
	var be *botapi.Error
	if errors.As(err, &be) {
		return []ErrorItem{{Message: be.Message}}
	}
	l, ok := errs.AsList(err)
	if !ok {
		return []ErrorItem{{Message: err.Error()}}
	}
	out := make([]ErrorItem, 0, len(l))
	for _, e := range l {
		out = append(out, ErrorItem{Code: string(e.Code), Fields: e.Fields, Message: e.Message})
	}
	return out
}

// PlanResponse 預覽結果：輸入的表單、推算局數與經濟預估、所有驗證錯誤
type PlanResponse struct {
	Name         string            `json:"name"         yaml:"name"`
	Flow         spec.Flow         `json:"flow"         yaml:"flow"`
	Bets         spec.BetRange     `json:"bets"         yaml:"bets"`
	Distribution spec.Distribution `json:"distribution" yaml:"distribution"`
	CycleGames   int               `json:"cycle_games"  yaml:"cycle_games"`
	RawCounts    spec.Counts       `json:"raw_counts"   yaml:"raw_counts"`
	Counts       spec.Counts       `json:"counts"       yaml:"counts"`
	Buckets      engine.Buckets    `json:"buckets"      yaml:"buckets"`
	Economics    spec.Economics    `json:"economics"    yaml:"economics"`
	Valid        bool              `json:"valid"        yaml:"valid"`
	Errors       []ErrorItem       `json:"errors"       yaml:"errors"`
}

func NewPlanResponse(f spec.BotForm, p *engine.Plan) PlanResponse {
	return PlanResponse{
		Name:         f.Name,
		Flow:         f.Flow,
		Bets:         f.Bets,
		Distribution: f.Dist,
		CycleGames:   p.CycleGames,
		RawCounts:    p.Raw,
		Counts:       p.Counts,
		Buckets:      p.Buckets,
		Economics:    p.Economics,
		Valid:        p.Valid(),
		Errors:       NewErrorItems(p.Errors.Err()),
	}
}

// ValidateResponse 只回傳檢查結果
type ValidateResponse struct {
	Valid  bool        `json:"valid"`
	Errors []ErrorItem `json:"errors"`
}

func NewValidateResponse(l errs.List) ValidateResponse {
	return ValidateResponse{Valid: len(l) == 0, Errors: NewErrorItems(l.Err())}
}

// SubmitResponse 建立/更新 bot 成功
type SubmitResponse struct {
	ID      string          `json:"id"`
	Message string          `json:"message,omitempty"`
	Payload spec.BotPayload `json:"payload"`
}

func NewSubmitResponse(payload spec.BotPayload, resp *botapi.Response) SubmitResponse {
	out := SubmitResponse{Payload: payload}
	if resp != nil {
		out.ID = resp.ID
		out.Message = resp.Message
	}
	return out
}

// PresetList GET /v1/presets
type PresetList struct {
	Presets []spec.Preset `json:"presets"`
}

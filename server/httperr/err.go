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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/dto"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/preset"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel  → 504/408（請求生命週期問題）
//   - 後端 bot 服務失敗   → 502（訊息原文保留在 body）
//   - preset 不存在       → 404；id 重複 → 409
//   - errs.List / Warn    → 400（請求/參數問題）
//   - errs.Fatal / 其他   → 500（系統/不可恢復問題）
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
func StatusCode(err error) int {
	// 1) 先處理 context 取消/超時（即使被 wrap 也能被 errors.Is 命中）
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	}

	// 2) 邊界上的已知錯誤
	var be *botapi.Error
	switch {
	case errors.As(err, &be):
		return http.StatusBadGateway // 502
	case errors.Is(err, preset.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, preset.ErrDuplicateKey):
		return http.StatusConflict // 409
	}

	// 3) 驗證錯誤清單
	var l errs.List
	if errors.As(err, &l) {
		return http.StatusBadRequest
	}

	// 4) 內部錯誤分級（errs.E/Wrap）
	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest // 400
	}
	return http.StatusInternalServerError
}

// Errs 寫回 {"errors":[{code,fields,message}]}。
// 5xx（後端 502 除外）不把內部訊息外露。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	body := dto.ErrorBody{Errors: dto.NewErrorItems(err)}
	if status >= 500 && status != http.StatusBadGateway && status != http.StatusGatewayTimeout {
		body.Errors = []dto.ErrorItem{{Message: http.StatusText(status)}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}

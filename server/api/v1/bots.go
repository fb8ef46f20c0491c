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

package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/cyclelab/dto"
)

// CreateBot 驗證失敗回 400（全部錯誤），後端失敗回 502（後端訊息原文）
func (h *Handler) CreateBot(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodePlanRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	sub, err := h.lab.CreateBot(ctx, req.Form())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewSubmitResponse(sub.Payload, sub.Response))
}

func (h *Handler) UpdateBot(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodePlanRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	sub, err := h.lab.UpdateBot(ctx, chi.URLParam(r, "id"), req.Form())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSubmitResponse(sub.Payload, sub.Response))
}

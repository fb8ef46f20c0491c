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

	"github.com/zintix-labs/cyclelab/dto"
)

// Plan 預覽：永遠 200，驗證錯誤放在 body 的 errors
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodePlanRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f := req.Form()
	writeJSON(w, http.StatusOK, dto.NewPlanResponse(f, h.lab.Preview(f)))
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodePlanRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewValidateResponse(h.lab.Validate(req.Form())))
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSweepRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.lab.Sweep(req.Form(), req.From, req.To, req.Steps)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

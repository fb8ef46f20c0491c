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
	"github.com/zintix-labs/cyclelab/spec"
)

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	ps, err := h.lab.ListPresets(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ps == nil {
		ps = []spec.Preset{}
	}
	writeJSON(w, http.StatusOK, dto.PresetList{Presets: ps})
}

func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	p, err := dto.DecodePreset(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	saved, err := h.lab.SavePreset(ctx, *p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	p, err := h.lab.LoadPreset(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.lab.DeletePreset(ctx, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyPreset 把 preset 套到新表單並回傳預覽，bot 名稱取自 ?name=
func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	f, err := h.lab.FormFromPreset(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPlanResponse(f, h.lab.Preview(f)))
}
